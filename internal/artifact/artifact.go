// Package artifact defines the opaque output containers produced by subtasks.
//
// A subtask always terminates in exactly one artifact: a text artifact for
// normal observations, or an error artifact for recovered failures. The
// surrounding agent loop inspects the artifact kind to detect failure; there
// is no separate exception channel crossing the core's boundary.
package artifact

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates artifact types.
type Kind string

const (
	// KindText is a plain-text observation.
	KindText Kind = "text"

	// KindError is a recovered failure with an optional underlying cause.
	KindError Kind = "error"
)

// Artifact is an opaque typed output container.
type Artifact interface {
	// Kind returns the artifact discriminator.
	Kind() Kind

	// Value returns the artifact's string payload.
	Value() string
}

// Text wraps a plain string observation.
type Text struct {
	value string
}

// NewText creates a text artifact.
func NewText(value string) *Text {
	return &Text{value: value}
}

// Kind returns KindText.
func (t *Text) Kind() Kind { return KindText }

// Value returns the wrapped string.
func (t *Text) Value() string { return t.value }

// String implements fmt.Stringer.
func (t *Text) String() string { return t.value }

// MarshalJSON serializes the text artifact.
func (t *Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind   `json:"kind"`
		Value string `json:"value"`
	}{KindText, t.value})
}

// Error wraps a failure message, an optional underlying cause, and a
// reference to the originating task for traceability.
type Error struct {
	message string
	cause   error
	taskID  string
}

// NewError creates an error artifact for the given task.
func NewError(message, taskID string) *Error {
	return &Error{message: message, taskID: taskID}
}

// NewErrorWithCause creates an error artifact carrying the underlying error.
func NewErrorWithCause(message, taskID string, cause error) *Error {
	return &Error{message: message, taskID: taskID, cause: cause}
}

// Kind returns KindError.
func (e *Error) Kind() Kind { return KindError }

// Value returns the failure message.
func (e *Error) Value() string { return e.message }

// Cause returns the underlying error, if any.
func (e *Error) Cause() error { return e.cause }

// TaskID returns the originating task's id.
func (e *Error) TaskID() string { return e.taskID }

// String implements fmt.Stringer.
func (e *Error) String() string {
	if e.cause != nil {
		return fmt.Sprintf("%s (cause: %v)", e.message, e.cause)
	}
	return e.message
}

// MarshalJSON serializes the error artifact. The cause is flattened to its
// message; error values do not survive a JSON round trip.
func (e *Error) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind   Kind   `json:"kind"`
		Value  string `json:"value"`
		TaskID string `json:"task_id,omitempty"`
		Cause  string `json:"cause,omitempty"`
	}{KindError, e.message, e.taskID, ""}
	if e.cause != nil {
		out.Cause = e.cause.Error()
	}
	return json.Marshal(out)
}

// IsError reports whether the artifact represents a recovered failure.
func IsError(a Artifact) bool {
	return a != nil && a.Kind() == KindError
}
