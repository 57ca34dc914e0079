// Package action implements the extraction grammar and the two-stage schema
// validation pipeline for tool actions parsed out of raw model output.
//
// Stage one validates the action envelope (type/name/method, optional
// input). Stage two validates the stringified input against the resolved
// tool's method schema. Failures are plain values carrying a kind
// discriminant - the caller branches on the kind to build its diagnostic,
// nothing is panicked or thrown across package boundaries.
package action

import (
	"encoding/json"
	"fmt"

	"actioncore/internal/literal"
	"actioncore/internal/tools"
)

// Allowed action types.
const (
	TypeTool       = "tool"
	TypeMiddleware = "middleware"
)

// Kind classifies a validation pipeline failure.
type Kind int

const (
	// KindSyntax - the action literal could not be parsed at all.
	KindSyntax Kind = iota

	// KindSchema - the parsed envelope failed structural validation.
	KindSchema

	// KindInput - the resolved tool rejected the input against its method schema.
	KindInput

	// KindGeneric - any other failure during parsing.
	KindGeneric
)

// String returns the kind's name for logging.
func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindSchema:
		return "schema"
	case KindInput:
		return "input"
	default:
		return "generic"
	}
}

// ParseError is a validation pipeline failure. It travels as a return value,
// not a panic; Kind tells the caller which stage failed.
type ParseError struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Action is a validated action envelope extracted from model output.
type Action struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Method string `json:"method"`

	// Input is the stringified action input. HasInput distinguishes an
	// absent input key from one that stringified to empty.
	Input    string `json:"input,omitempty"`
	HasInput bool   `json:"-"`
}

// Decode parses a raw action literal and runs structural validation.
// The literal parser is deliberately permissive (see internal/literal);
// anything it rejects is a syntax failure, anything that parses but fails
// the envelope schema is a schema failure.
func Decode(raw string) (*Action, *ParseError) {
	payload, err := literal.ParseMap(raw)
	if err != nil {
		return nil, &ParseError{Kind: KindSyntax, Err: err}
	}

	if err := validateEnvelope(payload); err != nil {
		return nil, &ParseError{Kind: KindSchema, Err: err}
	}

	a := &Action{
		Type:   payload["type"].(string),
		Name:   payload["name"].(string),
		Method: payload["method"].(string),
	}
	if input, ok := payload["input"]; ok {
		a.Input = literal.Stringify(input)
		a.HasInput = true
	}
	return a, nil
}

// validateEnvelope checks the structural schema: type (tool|middleware),
// name and method as strings, optional input as string/sequence/mapping.
func validateEnvelope(payload map[string]any) error {
	typ, ok := payload["type"].(string)
	if !ok {
		return fmt.Errorf("missing or non-string key %q", "type")
	}
	if typ != TypeTool && typ != TypeMiddleware {
		return fmt.Errorf("type must be %q or %q, got %q", TypeTool, TypeMiddleware, typ)
	}

	if _, ok := payload["name"].(string); !ok {
		return fmt.Errorf("missing or non-string key %q", "name")
	}
	if _, ok := payload["method"].(string); !ok {
		return fmt.Errorf("missing or non-string key %q", "method")
	}

	if input, present := payload["input"]; present {
		switch input.(type) {
		case string, []any, map[string]any:
			// allowed
		default:
			return fmt.Errorf("input must be a string, sequence, or mapping, got %T", input)
		}
	}

	return nil
}

// ValidateInput runs stage two: the resolved tool's method schema against
// the stringified input. Callers skip this stage entirely when no tool
// resolved - an unknown tool is a run-time outcome, not a validation error.
func ValidateInput(tool *tools.Tool, method, input string) *ParseError {
	schema, ok := tool.MethodSchema(method)
	if !ok {
		return &ParseError{
			Kind: KindInput,
			Err:  fmt.Errorf("%w: %s.%s", tools.ErrMethodNotFound, tool.Name, method),
		}
	}
	if err := schema.Validate(input); err != nil {
		return &ParseError{Kind: KindInput, Err: err}
	}
	return nil
}

// ToJSON serializes the envelope back to its canonical JSON action form.
func (a *Action) ToJSON() (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
