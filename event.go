package chartbuild

import (
	"encoding/json"
	"errors"
	"maps"

	"gopkg.in/yaml.v3"
)

// Event is an event object as the runtime receives it: a type plus
// arbitrary properties. It encodes flat, as {"type": ..., "key": ...}.
//
// Events should not be mutated after construction; EventBuilder hands out
// copies.
type Event struct {
	Type string
	Data map[string]any
}

// NewEvent creates an event with the given type and optional properties.
func NewEvent(eventType string, data map[string]any) Event {
	return Event{Type: eventType, Data: maps.Clone(data)}
}

// Get returns a property value.
func (e Event) Get(key string) (any, bool) {
	v, ok := e.Data[key]
	return v, ok
}

func (e Event) flat() map[string]any {
	m := make(map[string]any, len(e.Data)+1)
	maps.Copy(m, e.Data)
	if e.Type != "" {
		m["type"] = e.Type
	}
	return m
}

func (e *Event) fromFlat(m map[string]any) error {
	t, _ := m["type"].(string)
	if _, present := m["type"]; present && t == "" {
		return errors.New("event type must be a non-empty string")
	}
	delete(m, "type")
	e.Type = t
	e.Data = nil
	if len(m) > 0 {
		e.Data = m
	}
	return nil
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.flat())
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	return e.fromFlat(m)
}

func (e Event) MarshalYAML() (any, error) {
	return e.flat(), nil
}

func (e *Event) UnmarshalYAML(node *yaml.Node) error {
	var m map[string]any
	if err := node.Decode(&m); err != nil {
		return err
	}
	return e.fromFlat(m)
}
