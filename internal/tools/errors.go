package tools

import "errors"

// Tool registry and validation errors.
var (
	// ErrToolNameEmpty is returned when a tool has no name.
	ErrToolNameEmpty = errors.New("tool name cannot be empty")

	// ErrToolNoMethods is returned when a tool exposes no methods.
	ErrToolNoMethods = errors.New("tool must expose at least one method")

	// ErrMethodInvokeNil is returned when a method has no invoke function.
	ErrMethodInvokeNil = errors.New("method invoke function cannot be nil")

	// ErrMethodNotFound is returned when a tool does not expose a method.
	ErrMethodNotFound = errors.New("method not found")

	// ErrToolAlreadyRegistered is returned when registering a duplicate.
	ErrToolAlreadyRegistered = errors.New("tool already registered")

	// ErrInputRequired is returned when a required input is missing.
	ErrInputRequired = errors.New("input is required")

	// ErrInputMismatch is returned when an input fails the schema pattern.
	ErrInputMismatch = errors.New("input does not match schema")

	// ErrInputTooLong is returned when an input exceeds the schema bound.
	ErrInputTooLong = errors.New("input too long")
)
