package chartbuild

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid machine configuration")
	ErrUnknownTarget     = errors.New("unknown transition target")
	ErrUnknownState      = errors.New("state not found")
	ErrUnresolved        = errors.New("unresolved implementation")
	ErrDelayCycle        = errors.New("delay reference cycle")
	ErrInvalidTransition = errors.New("invalid transition")
)
