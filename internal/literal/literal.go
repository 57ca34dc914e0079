// Package literal parses permissive object literals out of model output.
//
// Models frequently emit action payloads that are almost-JSON: single-quoted
// strings, unquoted keys, Python-style booleans. Strict JSON decoding would
// reject most of them, so parsing goes through YAML flow syntax instead,
// which accepts all of JSON plus the common deviations. This leniency is
// deliberate; callers treat any parse failure as a syntax error.
package literal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Parse errors.
var (
	// ErrNotMapping is returned when the literal parses but is not an object.
	ErrNotMapping = errors.New("literal is not a mapping")

	// ErrEmptyLiteral is returned for blank input.
	ErrEmptyLiteral = errors.New("empty literal")
)

// ParseMap parses a permissive object literal into a string-keyed map.
// Accepted syntax includes JSON objects, single-quoted strings, unquoted
// keys, and nested mappings/sequences. A parse that does not yield a
// mapping fails with ErrNotMapping.
func ParseMap(s string) (map[string]any, error) {
	if s == "" {
		return nil, ErrEmptyLiteral
	}

	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("malformed literal: %w", err)
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotMapping
	}
	return m, nil
}

// Stringify renders a parsed literal value to its canonical string form.
// Strings pass through untouched; scalars use their Go formatting; composite
// values are compact JSON. This is the form stored on a subtask's action
// input and validated against tool schemas.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(data)
	}
}
