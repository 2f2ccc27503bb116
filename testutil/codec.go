package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Codec provides a common interface over the JSON and YAML encodings.
// This allows running the same test suite on both wire formats.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type yamlCodec struct{}

func (yamlCodec) Name() string                       { return "yaml" }
func (yamlCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

// Codecs returns every supported codec.
func Codecs() []Codec {
	return []Codec{jsonCodec{}, yamlCodec{}}
}

// RoundTrip encodes v with c and decodes the result into a fresh T.
func RoundTrip[T any](t testing.TB, c Codec, v T) T {
	t.Helper()
	data, err := c.Marshal(v)
	require.NoError(t, err, "%s marshal", c.Name())
	var out T
	require.NoError(t, c.Unmarshal(data, &out), "%s unmarshal:\n%s", c.Name(), data)
	return out
}

// JSONEq asserts that v encodes to JSON equivalent to want.
func JSONEq(t testing.TB, want string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, want, string(data))
}
