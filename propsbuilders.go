package chartbuild

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Property bags passed through to the runtime: state meta, final-state
// output, actor input, events, spawn and action options. Each Build returns
// a fresh map.

// MetaBuilder builds state metadata for WithMeta.
type MetaBuilder struct{ props map[string]any }

func NewMetaBuilder() *MetaBuilder { return &MetaBuilder{props: map[string]any{}} }

func (b *MetaBuilder) WithComponent(component string) *MetaBuilder {
	return b.WithProperty("component", component)
}

// WithTimeout records a timeout in milliseconds.
func (b *MetaBuilder) WithTimeout(ms int64) *MetaBuilder { return b.WithProperty("timeout", ms) }

func (b *MetaBuilder) WithLevel(level string) *MetaBuilder { return b.WithProperty("level", level) }

func (b *MetaBuilder) WithComplexity(complexity string) *MetaBuilder {
	return b.WithProperty("complexity", complexity)
}

func (b *MetaBuilder) WithView(view string) *MetaBuilder { return b.WithProperty("view", view) }

func (b *MetaBuilder) WithPriority(priority string) *MetaBuilder {
	return b.WithProperty("priority", priority)
}

func (b *MetaBuilder) WithType(typ string) *MetaBuilder { return b.WithProperty("type", typ) }

func (b *MetaBuilder) WithProperty(key string, value any) *MetaBuilder {
	b.props[key] = value
	return b
}

func (b *MetaBuilder) Build() map[string]any { return maps.Clone(b.props) }

// OutputBuilder builds final-state output for WithOutput.
type OutputBuilder struct {
	props map[string]any
	now   func() time.Time
}

func NewOutputBuilder() *OutputBuilder {
	return &OutputBuilder{props: map[string]any{}, now: time.Now}
}

func (b *OutputBuilder) WithStatus(status string) *OutputBuilder {
	return b.WithProperty("status", status)
}

func (b *OutputBuilder) WithResult(result any) *OutputBuilder { return b.WithProperty("result", result) }

func (b *OutputBuilder) WithMessage(message string) *OutputBuilder {
	return b.WithProperty("message", message)
}

func (b *OutputBuilder) WithCode(code string) *OutputBuilder { return b.WithProperty("code", code) }

// WithTimestamp records a Unix millisecond timestamp; 0 means now.
func (b *OutputBuilder) WithTimestamp(unixMilli int64) *OutputBuilder {
	if unixMilli == 0 {
		unixMilli = b.now().UnixMilli()
	}
	return b.WithProperty("timestamp", unixMilli)
}

func (b *OutputBuilder) WithProcessedItems(count int) *OutputBuilder {
	return b.WithProperty("processedItems", count)
}

// WithDuration records a duration in milliseconds.
func (b *OutputBuilder) WithDuration(ms int64) *OutputBuilder { return b.WithProperty("duration", ms) }

func (b *OutputBuilder) WithError(err string) *OutputBuilder { return b.WithProperty("error", err) }

func (b *OutputBuilder) WithRetryable(retryable bool) *OutputBuilder {
	return b.WithProperty("retryable", retryable)
}

func (b *OutputBuilder) WithProperty(key string, value any) *OutputBuilder {
	b.props[key] = value
	return b
}

func (b *OutputBuilder) Build() map[string]any { return maps.Clone(b.props) }

// InputBuilder builds actor input for InvokeBuilder.WithInput.
type InputBuilder struct{ props map[string]any }

func NewInputBuilder() *InputBuilder { return &InputBuilder{props: map[string]any{}} }

func (b *InputBuilder) WithTask(task string) *InputBuilder { return b.WithProperty("task", task) }

func (b *InputBuilder) WithProperty(key string, value any) *InputBuilder {
	b.props[key] = value
	return b
}

func (b *InputBuilder) WithProperties(props map[string]any) *InputBuilder {
	maps.Copy(b.props, props)
	return b
}

func (b *InputBuilder) Build() map[string]any { return maps.Clone(b.props) }

// EventBuilder builds an Event.
type EventBuilder struct {
	typ   string
	props map[string]any
}

func NewEventBuilder() *EventBuilder { return &EventBuilder{props: map[string]any{}} }

func (b *EventBuilder) WithType(typ string) *EventBuilder {
	b.typ = typ
	return b
}

// WithProperty sets a payload property. The key "type" sets the type.
func (b *EventBuilder) WithProperty(key string, value any) *EventBuilder {
	if key == "type" {
		if s, ok := value.(string); ok {
			b.typ = s
			return b
		}
	}
	b.props[key] = value
	return b
}

func (b *EventBuilder) Build() Event { return NewEvent(b.typ, b.props) }

// SpawnOptionsBuilder builds options for spawning a child actor.
type SpawnOptionsBuilder struct{ props map[string]any }

func NewSpawnOptionsBuilder() *SpawnOptionsBuilder {
	return &SpawnOptionsBuilder{props: map[string]any{}}
}

func (b *SpawnOptionsBuilder) WithID(id string) *SpawnOptionsBuilder {
	return b.WithProperty("id", id)
}

// WithGeneratedID assigns a random UUID as the child ID.
func (b *SpawnOptionsBuilder) WithGeneratedID() *SpawnOptionsBuilder {
	return b.WithProperty("id", uuid.NewString())
}

func (b *SpawnOptionsBuilder) WithInput(input any) *SpawnOptionsBuilder {
	return b.WithProperty("input", input)
}

// WithSystemID registers the child under a system-wide ID.
func (b *SpawnOptionsBuilder) WithSystemID(systemID string) *SpawnOptionsBuilder {
	return b.WithProperty("systemId", systemID)
}

func (b *SpawnOptionsBuilder) WithSyncSnapshot(sync bool) *SpawnOptionsBuilder {
	return b.WithProperty("syncSnapshot", sync)
}

func (b *SpawnOptionsBuilder) WithProperty(key string, value any) *SpawnOptionsBuilder {
	b.props[key] = value
	return b
}

func (b *SpawnOptionsBuilder) Build() map[string]any { return maps.Clone(b.props) }

// ActionOptionsBuilder builds options for runtime-provided actions such as
// sending or raising events.
type ActionOptionsBuilder struct{ props map[string]any }

func NewActionOptionsBuilder() *ActionOptionsBuilder {
	return &ActionOptionsBuilder{props: map[string]any{}}
}

// WithDelay records a delay in milliseconds.
func (b *ActionOptionsBuilder) WithDelay(ms int64) *ActionOptionsBuilder {
	return b.WithProperty("delay", ms)
}

func (b *ActionOptionsBuilder) WithID(id string) *ActionOptionsBuilder {
	return b.WithProperty("id", id)
}

func (b *ActionOptionsBuilder) WithProperty(key string, value any) *ActionOptionsBuilder {
	b.props[key] = value
	return b
}

func (b *ActionOptionsBuilder) Build() map[string]any { return maps.Clone(b.props) }
