package task

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"actioncore/internal/artifact"
	"actioncore/internal/executor"
	"actioncore/internal/tools"
)

func newTestTask(t *testing.T) *Task {
	t.Helper()
	return NewTask(tools.NewBuiltinRegistry(), nil)
}

func attach(t *testing.T, owner *Task, raw string) *Subtask {
	t.Helper()
	return owner.AddSubtask(NewSubtask(raw))
}

func TestRunToolAction(t *testing.T) {
	owner := newTestTask(t)
	s := attach(t, owner, "Thought: I should check.\n"+
		`Action: {"type": "tool", "name": "calc", "method": "add", "input": "2,3"}`)

	if s.Thought() != "I should check." {
		t.Errorf("thought = %q", s.Thought())
	}
	if s.ActionName() != "calc" || s.ActionMethod() != "add" {
		t.Errorf("action = %s.%s", s.ActionName(), s.ActionMethod())
	}
	if s.Tool() == nil {
		t.Fatal("tool not resolved")
	}

	out := s.Run(context.Background())
	if artifact.IsError(out) {
		t.Fatalf("unexpected error artifact: %s", out.Value())
	}
	if out.Value() != "5" {
		t.Errorf("observation = %q, want %q", out.Value(), "5")
	}
}

func TestRunInputValidationFailure(t *testing.T) {
	owner := newTestTask(t)
	s := attach(t, owner, `Action: {"type": "tool", "name": "calc", "method": "add", "input": "two"}`)

	if s.ActionName() != ErrorActionName {
		t.Fatalf("actionName = %q, want %q", s.ActionName(), ErrorActionName)
	}
	if s.Tool() != nil {
		t.Error("tool must be dropped on the error branch")
	}

	out := s.Run(context.Background())
	if !artifact.IsError(out) {
		t.Fatal("expected error artifact")
	}
	if !strings.Contains(out.Value(), "validation error") {
		t.Errorf("diagnostic = %q", out.Value())
	}
}

func TestRunSyntaxFailure(t *testing.T) {
	owner := newTestTask(t)
	s := attach(t, owner, "Action: not-json")

	if s.ActionName() != ErrorActionName {
		t.Fatalf("actionName = %q, want %q", s.ActionName(), ErrorActionName)
	}

	out := s.Run(context.Background())
	if !artifact.IsError(out) {
		t.Fatal("expected error artifact")
	}
	if !strings.Contains(out.Value(), "syntax error") {
		t.Errorf("diagnostic = %q", out.Value())
	}
}

func TestRunPreResolvedOutput(t *testing.T) {
	owner := newTestTask(t)
	s := attach(t, owner, "Output: final answer is 42")

	if s.Output() == nil {
		t.Fatal("output should resolve at attach time")
	}

	out := s.Run(context.Background())
	if out.Value() != "final answer is 42" {
		t.Errorf("observation = %q", out.Value())
	}
	if artifact.IsError(out) {
		t.Error("pre-resolved output must stay a text artifact")
	}
}

func TestActionTakesPrecedenceOverOutput(t *testing.T) {
	owner := newTestTask(t)
	s := attach(t, owner, `Action: {"type": "tool", "name": "calc", "method": "mul", "input": "4,5"}`+"\n"+
		"Output: ignored")

	out := s.Run(context.Background())
	if out.Value() != "20" {
		t.Errorf("observation = %q, want %q", out.Value(), "20")
	}
}

func TestRunMissingKeyFailsValidation(t *testing.T) {
	owner := newTestTask(t)
	s := attach(t, owner, `Action: {"type": "tool", "name": "calc"}`)

	if s.ActionName() != ErrorActionName {
		t.Errorf("actionName = %q, want %q", s.ActionName(), ErrorActionName)
	}
}

func TestRunUnknownToolProducesTextArtifact(t *testing.T) {
	owner := newTestTask(t)
	s := attach(t, owner, `Action: {"type": "tool", "name": "nonexistent", "method": "go"}`)

	if s.ActionName() != "nonexistent" {
		t.Errorf("actionName = %q", s.ActionName())
	}

	out := s.Run(context.Background())
	if artifact.IsError(out) {
		t.Error("unknown tool is an outcome, not a failure")
	}
	if out.Value() != "tool not found" {
		t.Errorf("observation = %q, want %q", out.Value(), "tool not found")
	}
}

func TestRunUnknownMethodFailsValidation(t *testing.T) {
	owner := newTestTask(t)
	s := attach(t, owner, `Action: {"type": "tool", "name": "calc", "method": "divide", "input": "6,3"}`)

	if s.ActionName() != ErrorActionName {
		t.Errorf("actionName = %q, want %q", s.ActionName(), ErrorActionName)
	}

	out := s.Run(context.Background())
	if !artifact.IsError(out) {
		t.Error("expected error artifact for unknown method")
	}
}

func TestRunDispatchFailureBecomesErrorArtifact(t *testing.T) {
	boom := errors.New("backend unavailable")
	registry := tools.NewRegistry()
	registry.MustRegister(&tools.Tool{
		Name:     "flaky",
		Category: tools.CategoryGeneral,
		Methods: map[string]*tools.Method{
			"call": {
				Invoke: func(ctx context.Context, input string) (string, error) {
					return "", boom
				},
			},
		},
	})

	owner := NewTask(registry, nil)
	s := attach(t, owner, `Action: {"type": "tool", "name": "flaky", "method": "call", "input": "x"}`)

	out := s.Run(context.Background())
	if !artifact.IsError(out) {
		t.Fatal("expected error artifact")
	}
	errOut, ok := out.(*artifact.Error)
	if !ok {
		t.Fatalf("artifact type %T", out)
	}
	if !errors.Is(errOut.Cause(), boom) {
		t.Errorf("cause = %v, want wrapped %v", errOut.Cause(), boom)
	}
	if errOut.TaskID() != owner.ID() {
		t.Errorf("task id = %q, want %q", errOut.TaskID(), owner.ID())
	}
}

func TestRunTimeoutBecomesErrorArtifact(t *testing.T) {
	registry := tools.NewRegistry()
	registry.MustRegister(&tools.Tool{
		Name:     "stall",
		Category: tools.CategoryGeneral,
		Methods: map[string]*tools.Method{
			"wait": {
				Invoke: func(ctx context.Context, input string) (string, error) {
					select {
					case <-time.After(5 * time.Second):
						return "done", nil
					case <-ctx.Done():
						return "", ctx.Err()
					}
				},
			},
		},
	})

	exec := executor.NewLimited(executor.NewDirect(), 20*time.Millisecond)
	owner := NewTask(registry, exec)
	s := attach(t, owner, `Action: {"type": "tool", "name": "stall", "method": "wait"}`)

	out := s.Run(context.Background())
	if !artifact.IsError(out) {
		t.Fatal("expected error artifact for timed-out dispatch")
	}
	errOut := out.(*artifact.Error)
	if !errors.Is(errOut.Cause(), executor.ErrTimeout) {
		t.Errorf("cause = %v, want timeout", errOut.Cause())
	}
}

func TestRunIsIdempotent(t *testing.T) {
	owner := newTestTask(t)
	s := attach(t, owner, `Action: {"type": "tool", "name": "calc", "method": "add", "input": "1,1"}`)

	first := s.Run(context.Background())
	second := s.Run(context.Background())
	if first != second {
		t.Error("second run must return the same artifact")
	}
}

func TestRunBeforeAttach(t *testing.T) {
	s := NewSubtask("Output: orphan")

	out := s.Run(context.Background())
	if !artifact.IsError(out) {
		t.Errorf("unattached run should produce an error artifact, got %q", out.Value())
	}
}

func TestWriteOnceFields(t *testing.T) {
	var v onceString

	if !v.Set("first") {
		t.Fatal("first write must take")
	}
	if v.Set("second") {
		t.Error("second write must not take")
	}
	if v.Get() != "first" {
		t.Errorf("value = %q, want %q", v.Get(), "first")
	}
}

func TestSingleQuotedActionParses(t *testing.T) {
	owner := newTestTask(t)
	s := attach(t, owner, `Action: {'type': 'tool', 'name': 'echo', 'method': 'say', 'input': 'hi'}`)

	out := s.Run(context.Background())
	if out.Value() != "hi" {
		t.Errorf("observation = %q, want %q", out.Value(), "hi")
	}
}

func TestGraphLinksAreIdempotent(t *testing.T) {
	owner := newTestTask(t)
	a := attach(t, owner, "Output: a")
	b := owner.AddSubtask(NewSubtask("Output: b"))

	// AddSubtask already linked a -> b; repeating from both sides must not
	// duplicate anything.
	a.AddChild(b)
	b.AddParent(a)

	if got := a.ChildIDs(); len(got) != 1 || got[0] != b.ID() {
		t.Errorf("children of a = %v", got)
	}
	if got := b.ParentIDs(); len(got) != 1 || got[0] != a.ID() {
		t.Errorf("parents of b = %v", got)
	}
}

func TestGraphRejectsSelfLink(t *testing.T) {
	owner := newTestTask(t)
	a := attach(t, owner, "Output: a")

	a.AddChild(a)
	a.AddParent(a)

	if len(a.ChildIDs()) != 0 || len(a.ParentIDs()) != 0 {
		t.Errorf("self link recorded: children=%v parents=%v", a.ChildIDs(), a.ParentIDs())
	}
}

func TestGraphResolvesLiveSubtasks(t *testing.T) {
	owner := newTestTask(t)
	a := attach(t, owner, "Output: a")
	b := owner.AddSubtask(NewSubtask("Output: b"))

	children := a.Children()
	if len(children) != 1 || children[0] != b {
		t.Errorf("children = %v", children)
	}
	parents := b.Parents()
	if len(parents) != 1 || parents[0] != a {
		t.Errorf("parents = %v", parents)
	}
}

func TestSubtaskToJSON(t *testing.T) {
	owner := newTestTask(t)
	s := attach(t, owner, `Action: {"type": "tool", "name": "calc", "method": "add", "input": "2,3"}`)

	out, err := s.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("serialized subtask is not JSON: %v", err)
	}

	want := map[string]string{"type": "tool", "name": "calc", "method": "add", "input": "2,3"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("field %q = %q, want %q", k, got[k], v)
		}
	}
}

func TestSubtaskToJSONOmitsUnsetFields(t *testing.T) {
	s := NewSubtask("no segments here")

	out, err := s.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if out != "{}" {
		t.Errorf("serialized = %q, want empty object", out)
	}
}
