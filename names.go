package chartbuild

import (
	"strconv"
	"time"
)

// Name is the constraint for application identifiers: states, events,
// actions, guards and delays. Records store them as plain strings.
type Name interface {
	~string
}

// Delay keys a delayed transition. It is either the name of a delay
// implementation or a literal millisecond count such as "1000".
type Delay string

// Millis returns a literal delay of ms milliseconds. Negative values clamp
// to zero.
func Millis(ms int64) Delay {
	ms = max(ms, 0)
	return Delay(strconv.FormatInt(ms, 10))
}

// After returns a literal delay for d, truncated to whole milliseconds.
// Negative durations clamp to zero.
func After(d time.Duration) Delay {
	return Millis(d.Milliseconds())
}

// DelayOf converts an application delay name.
func DelayOf[D Name](name D) Delay {
	return Delay(name)
}

// Millis reports the literal millisecond value. ok is false for named delays.
func (d Delay) Millis() (ms int64, ok bool) {
	v, err := strconv.ParseInt(string(d), 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// IsLiteral reports whether d is a millisecond count rather than a name.
func (d Delay) IsLiteral() bool {
	_, ok := d.Millis()
	return ok
}

func names[T Name](in []T) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, n := range in {
		out[i] = string(n)
	}
	return out
}
