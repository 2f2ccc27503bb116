package chartbuild

import (
	"errors"
	"maps"
)

// InvokeConfig describes an actor invoked while a state is active. Src names
// an actor implementation; Logic carries an in-process actor instead and is
// never serialized.
type InvokeConfig struct {
	ID      string            `json:"id,omitempty" yaml:"id,omitempty"`
	Src     string            `json:"src,omitempty" yaml:"src,omitempty"`
	Input   map[string]any    `json:"input,omitempty" yaml:"input,omitempty"`
	OnDone  *TransitionConfig `json:"onDone,omitempty" yaml:"onDone,omitempty"`
	OnError *TransitionConfig `json:"onError,omitempty" yaml:"onError,omitempty"`
	Logic   any               `json:"-" yaml:"-"`
}

func (c *InvokeConfig) Validate() error {
	if c.Src == "" && c.Logic == nil {
		return errors.New("invoke requires a source")
	}
	if c.OnDone != nil {
		if err := c.OnDone.Validate(); err != nil {
			return err
		}
	}
	if c.OnError != nil {
		if err := c.OnError.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *InvokeConfig) Clone() *InvokeConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Input = maps.Clone(c.Input)
	if c.OnDone != nil {
		t := c.OnDone.clone()
		out.OnDone = &t
	}
	if c.OnError != nil {
		t := c.OnError.clone()
		out.OnError = &t
	}
	return &out
}
