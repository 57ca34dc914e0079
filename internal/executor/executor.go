// Package executor provides the execution boundary for tool dispatch.
//
// The boundary contract is byte-level: callers encode the stringified input
// to bytes before crossing, and decode the result bytes back to text. The
// executor surfaces failures to the caller unchanged - it does not catch,
// retry, or convert them. Recovery is the subtask's job.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"actioncore/internal/logging"
	"actioncore/internal/tools"
)

// Boundary errors.
var (
	// ErrNilTool is returned when a call carries no tool.
	ErrNilTool = errors.New("no tool bound to call")

	// ErrTimeout is returned when a limited executor cuts off a call.
	ErrTimeout = errors.New("tool execution timed out")
)

// Call is one dispatch request crossing the boundary.
type Call struct {
	// Tool is the resolved tool instance.
	Tool *tools.Tool

	// Method is the tool method to dispatch.
	Method string

	// Input is the encoded input payload.
	Input []byte
}

// Executor runs a bound tool method within an isolation boundary and
// returns the encoded output payload.
type Executor interface {
	Execute(ctx context.Context, call Call) ([]byte, error)
}

// Direct executes tool methods in-process. This is the default boundary;
// isolated variants wrap or replace it.
type Direct struct{}

// NewDirect creates an in-process executor.
func NewDirect() *Direct {
	return &Direct{}
}

// Execute dispatches the call's method on its tool.
func (e *Direct) Execute(ctx context.Context, call Call) ([]byte, error) {
	if call.Tool == nil {
		return nil, ErrNilTool
	}

	logging.ExecutorDebug("Dispatching %s.%s (%d input bytes)", call.Tool.Name, call.Method, len(call.Input))

	start := time.Now()
	out, err := call.Tool.Invoke(ctx, call.Method, string(call.Input))
	elapsed := time.Since(start)

	if err != nil {
		logging.ExecutorError("%s.%s failed after %v: %v", call.Tool.Name, call.Method, elapsed, err)
		return nil, fmt.Errorf("dispatch %s.%s: %w", call.Tool.Name, call.Method, err)
	}

	logging.ExecutorDebug("%s.%s completed in %v (%d output bytes)", call.Tool.Name, call.Method, elapsed, len(out))
	return []byte(out), nil
}

// Limited wraps another executor with a per-call timeout. Tools can incur
// external latency (process spawns, network calls); the core itself defines
// no timeout, so the enclosing loop installs one here when it wants a bound.
type Limited struct {
	inner   Executor
	timeout time.Duration
}

// NewLimited wraps an executor with a per-call timeout.
// A non-positive timeout disables the bound.
func NewLimited(inner Executor, timeout time.Duration) *Limited {
	return &Limited{inner: inner, timeout: timeout}
}

type execResult struct {
	out []byte
	err error
}

// Execute runs the inner executor, cutting the call off at the timeout.
// A timed-out tool goroutine is abandoned; its context is cancelled so
// well-behaved tools unwind promptly.
func (e *Limited) Execute(ctx context.Context, call Call) ([]byte, error) {
	if e.timeout <= 0 {
		return e.inner.Execute(ctx, call)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan execResult, 1)
	go func() {
		out, err := e.inner.Execute(ctx, call)
		done <- execResult{out: out, err: err}
	}()

	select {
	case res := <-done:
		return res.out, res.err
	case <-ctx.Done():
		name := "<nil>"
		if call.Tool != nil {
			name = call.Tool.Name
		}
		logging.ExecutorError("%s.%s exceeded %v", name, call.Method, e.timeout)
		return nil, fmt.Errorf("%w: %s.%s after %v", ErrTimeout, name, call.Method, e.timeout)
	}
}
