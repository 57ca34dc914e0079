// Package tools provides the tool model and registry for actioncore.
//
// A tool is a named capability provider exposing one or more methods. Each
// method declares a schema for its single string input and an invoke
// function. Subtasks resolve tools by name through the Registry and dispatch
// methods by name through the map - never by reflection.
package tools

import (
	"context"
	"fmt"
	"regexp"
	"sort"
)

// ToolCategory classifies tools for listing and filtering.
type ToolCategory string

const (
	// CategoryCompute covers pure computation tools.
	CategoryCompute ToolCategory = "/compute"

	// CategorySystem covers tools that read ambient system state.
	CategorySystem ToolCategory = "/system"

	// CategoryGeneral is for tools usable in any context.
	CategoryGeneral ToolCategory = "/general"
)

// InvokeFunc is the signature for method execution. The input is the
// stringified action input; the return value is the observation text.
type InvokeFunc func(ctx context.Context, input string) (string, error)

// InputSchema is the declarative check a method applies to its input before
// dispatch. Validation runs against the stringified input, so a pattern can
// express numeric or structured requirements over it.
type InputSchema struct {
	// Description documents the expected input for prompt rendering.
	Description string `json:"description,omitempty"`

	// Required indicates the method needs a non-empty input.
	Required bool `json:"required"`

	// Pattern is an optional anchored regexp the input must match.
	Pattern string `json:"pattern,omitempty"`

	// MaxLength bounds the input size (0 = unbounded).
	MaxLength int `json:"max_length,omitempty"`
}

// Validate checks the stringified input against the schema.
func (s InputSchema) Validate(input string) error {
	if s.Required && input == "" {
		return ErrInputRequired
	}
	if s.MaxLength > 0 && len(input) > s.MaxLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLong, len(input), s.MaxLength)
	}
	if s.Pattern != "" && input != "" {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return fmt.Errorf("invalid schema pattern %q: %w", s.Pattern, err)
		}
		if !re.MatchString(input) {
			return fmt.Errorf("%w: input %q does not match %q", ErrInputMismatch, input, s.Pattern)
		}
	}
	return nil
}

// Method is a single named operation on a tool.
type Method struct {
	// Description explains what the method does.
	Description string

	// Schema validates the stringified input before dispatch.
	Schema InputSchema

	// Invoke runs the method.
	Invoke InvokeFunc
}

// Tool defines a capability provider with named methods.
type Tool struct {
	// Name is the unique identifier used for registry lookup.
	Name string

	// Description explains what the tool provides.
	Description string

	// Category classifies the tool.
	Category ToolCategory

	// Methods maps method names to their definitions.
	Methods map[string]*Method
}

// Validate checks if the tool definition is valid.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if len(t.Methods) == 0 {
		return ErrToolNoMethods
	}
	for name, m := range t.Methods {
		if m == nil || m.Invoke == nil {
			return fmt.Errorf("%w: %s.%s", ErrMethodInvokeNil, t.Name, name)
		}
	}
	return nil
}

// Method returns the named method, or false if the tool does not have it.
func (t *Tool) Method(name string) (*Method, bool) {
	m, ok := t.Methods[name]
	return m, ok
}

// MethodNames returns the tool's method names, sorted.
func (t *Tool) MethodNames() []string {
	names := make([]string, 0, len(t.Methods))
	for name := range t.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MethodSchema returns the input schema for the named method.
func (t *Tool) MethodSchema(name string) (InputSchema, bool) {
	m, ok := t.Methods[name]
	if !ok {
		return InputSchema{}, false
	}
	return m.Schema, true
}

// Invoke dispatches the named method with the given input.
// Returns ErrMethodNotFound if the tool does not expose the method.
func (t *Tool) Invoke(ctx context.Context, method, input string) (string, error) {
	m, ok := t.Methods[method]
	if !ok {
		return "", fmt.Errorf("%w: %s.%s", ErrMethodNotFound, t.Name, method)
	}
	return m.Invoke(ctx, input)
}
