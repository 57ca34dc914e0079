package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// numericPairPattern matches inputs of the form "a,b" with integer operands.
const numericPairPattern = `^\s*-?\d+\s*,\s*-?\d+\s*$`

// NewBuiltinRegistry creates a registry preloaded with the built-in tools.
// These are the tools the CLI exposes and the reference implementations used
// by the test suite.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(CalcTool())
	r.MustRegister(DatetimeTool())
	r.MustRegister(EchoTool())
	return r
}

// CalcTool provides integer arithmetic over "a,b" inputs.
func CalcTool() *Tool {
	pairSchema := InputSchema{
		Description: "two integers separated by a comma, e.g. \"2,3\"",
		Required:    true,
		Pattern:     numericPairPattern,
	}

	return &Tool{
		Name:        "calc",
		Description: "Integer arithmetic on a comma-separated pair of operands.",
		Category:    CategoryCompute,
		Methods: map[string]*Method{
			"add": {
				Description: "Add the two operands.",
				Schema:      pairSchema,
				Invoke: func(ctx context.Context, input string) (string, error) {
					a, b, err := parseIntPair(input)
					if err != nil {
						return "", err
					}
					return strconv.Itoa(a + b), nil
				},
			},
			"sub": {
				Description: "Subtract the second operand from the first.",
				Schema:      pairSchema,
				Invoke: func(ctx context.Context, input string) (string, error) {
					a, b, err := parseIntPair(input)
					if err != nil {
						return "", err
					}
					return strconv.Itoa(a - b), nil
				},
			},
			"mul": {
				Description: "Multiply the two operands.",
				Schema:      pairSchema,
				Invoke: func(ctx context.Context, input string) (string, error) {
					a, b, err := parseIntPair(input)
					if err != nil {
						return "", err
					}
					return strconv.Itoa(a * b), nil
				},
			},
		},
	}
}

// DatetimeTool reports the current time.
func DatetimeTool() *Tool {
	return &Tool{
		Name:        "datetime",
		Description: "Current date and time.",
		Category:    CategorySystem,
		Methods: map[string]*Method{
			"now": {
				Description: "Current time in RFC 3339 format.",
				Schema:      InputSchema{},
				Invoke: func(ctx context.Context, input string) (string, error) {
					return time.Now().Format(time.RFC3339), nil
				},
			},
			"unix": {
				Description: "Current time as a Unix timestamp.",
				Schema:      InputSchema{},
				Invoke: func(ctx context.Context, input string) (string, error) {
					return strconv.FormatInt(time.Now().Unix(), 10), nil
				},
			},
		},
	}
}

// EchoTool returns its input unchanged. Useful for wiring checks.
func EchoTool() *Tool {
	return &Tool{
		Name:        "echo",
		Description: "Echo the input back.",
		Category:    CategoryGeneral,
		Methods: map[string]*Method{
			"say": {
				Description: "Return the input verbatim.",
				Schema: InputSchema{
					Description: "any text",
					Required:    true,
					MaxLength:   4096,
				},
				Invoke: func(ctx context.Context, input string) (string, error) {
					return input, nil
				},
			},
		},
	}
}

// parseIntPair splits "a,b" into two integers.
func parseIntPair(input string) (int, int, error) {
	parts := strings.SplitN(input, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two comma-separated operands, got %q", input)
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("first operand: %w", err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("second operand: %w", err)
	}
	return a, b, nil
}
