package literal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMapStrictJSON(t *testing.T) {
	m, err := ParseMap(`{"type": "tool", "name": "calc", "method": "add", "input": "2,3"}`)
	require.NoError(t, err)

	assert.Equal(t, "tool", m["type"])
	assert.Equal(t, "calc", m["name"])
	assert.Equal(t, "add", m["method"])
	assert.Equal(t, "2,3", m["input"])
}

func TestParseMapSingleQuotes(t *testing.T) {
	m, err := ParseMap(`{'type': 'tool', 'name': 'calc', 'method': 'add'}`)
	require.NoError(t, err)

	assert.Equal(t, "tool", m["type"])
	assert.Equal(t, "calc", m["name"])
}

func TestParseMapUnquotedKeys(t *testing.T) {
	m, err := ParseMap(`{type: tool, name: calc, method: add}`)
	require.NoError(t, err)

	assert.Equal(t, "tool", m["type"])
}

func TestParseMapNested(t *testing.T) {
	m, err := ParseMap(`{"type": "tool", "name": "t", "method": "m", "input": {"a": [1, 2], "b": true}}`)
	require.NoError(t, err)

	input, ok := m["input"].(map[string]any)
	require.True(t, ok, "input should be a nested mapping")
	assert.Equal(t, true, input["b"])
}

func TestParseMapNotAMapping(t *testing.T) {
	_, err := ParseMap("not-json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotMapping))
}

func TestParseMapMalformed(t *testing.T) {
	_, err := ParseMap(`{"type": "tool", "name": }broken`)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotMapping), "malformed input should be a parse failure, not a kind mismatch")
}

func TestParseMapEmpty(t *testing.T) {
	_, err := ParseMap("")
	assert.True(t, errors.Is(err, ErrEmptyLiteral))
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string passthrough", "2,3", "2,3"},
		{"nil", nil, ""},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"float", 1.5, "1.5"},
		{"list", []any{"a", "b"}, `["a","b"]`},
		{"map", map[string]any{"k": "v"}, `{"k":"v"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.in))
		})
	}
}
