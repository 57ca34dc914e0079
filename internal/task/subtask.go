// Package task implements the action-resolution core: the subtask lifecycle
// that turns raw model output into an executed tool observation, and the
// task container that owns subtasks and wires in the tool registry and
// execution boundary.
//
// A subtask moves through attach (parse raw input, validate the action,
// resolve the tool) and run (dispatch or short-circuit). Every failure along
// the way is recovered in place. Run always returns an artifact; nothing
// escapes to the enclosing loop as a raised error.
package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"actioncore/internal/action"
	"actioncore/internal/artifact"
	"actioncore/internal/executor"
	"actioncore/internal/logging"
	"actioncore/internal/tools"
)

// ErrorActionName is the terminal action name a subtask is forced into when
// its action fails to parse or validate. Run sees it and produces an error
// artifact instead of dispatching.
const ErrorActionName = "error"

// toolNotFoundText is the observation produced when the action names a tool
// absent from the registry. A recognized outcome, not a failure.
const toolNotFoundText = "tool not found"

// genericParseText is the model-facing diagnostic for unclassified parse
// failures. The real detail goes to the log only.
const genericParseText = "error: invalid action input, try again"

// Subtask is one parsed action-resolution step inside a task.
//
// The thought and action fields are write-once: the first parse that
// populates them wins, later writes are silent no-ops. The output is set
// exactly once, when run completes (or earlier, when the raw input carried a
// pre-resolved Output segment).
type Subtask struct {
	id       string
	rawInput string

	owner *Task

	thought      onceString
	actionType   onceString
	actionName   onceString
	actionMethod onceString
	actionInput  onceString

	// tool is a non-owning reference resolved from the owner's registry.
	// Unset whenever actionName is the error sentinel.
	tool *tools.Tool

	output artifact.Artifact

	parentIDs []string
	childIDs  []string
}

// NewSubtask creates an unattached subtask over raw model output.
func NewSubtask(rawInput string) *Subtask {
	return &Subtask{
		id:       uuid.New().String(),
		rawInput: rawInput,
	}
}

// ID returns the subtask's unique id.
func (s *Subtask) ID() string { return s.id }

// RawInput returns the raw model output this subtask was created from.
func (s *Subtask) RawInput() string { return s.rawInput }

// ParentTaskID returns the owning task's id, or "" before attachment.
func (s *Subtask) ParentTaskID() string {
	if s.owner == nil {
		return ""
	}
	return s.owner.ID()
}

// Thought returns the parsed thought line, or "" when none was found.
func (s *Subtask) Thought() string { return s.thought.Get() }

// ActionType returns the parsed action type.
func (s *Subtask) ActionType() string { return s.actionType.Get() }

// ActionName returns the parsed action name, or the error sentinel after a
// failed parse.
func (s *Subtask) ActionName() string { return s.actionName.Get() }

// ActionMethod returns the parsed action method.
func (s *Subtask) ActionMethod() string { return s.actionMethod.Get() }

// ActionInput returns the stringified action input, or the diagnostic text
// after a failed parse.
func (s *Subtask) ActionInput() string { return s.actionInput.Get() }

// Tool returns the resolved tool reference, or nil when no tool resolved.
func (s *Subtask) Tool() *tools.Tool { return s.tool }

// Output returns the produced artifact, or nil before run completes.
func (s *Subtask) Output() artifact.Artifact { return s.output }

// IsError reports whether the subtask short-circuited into the error branch.
func (s *Subtask) IsError() bool { return s.actionName.Get() == ErrorActionName }

// Attach binds the subtask to its owning task and immediately parses the raw
// input. Attachment happens once; a second call is a no-op.
func (s *Subtask) Attach(owner *Task) {
	if s.owner != nil || owner == nil {
		return
	}
	s.owner = owner
	s.initFromInput()
}

// initFromInput runs extraction over the raw input and populates the parse
// fields. Thought and Output segments are taken as-is; an Action segment
// goes through the full validation pipeline. Action takes precedence over
// Output when both appear.
func (s *Subtask) initFromInput() {
	ex := action.Extract(s.rawInput)

	if ex.ThoughtFound {
		s.thought.Set(ex.Thought)
	}

	switch {
	case ex.ActionFound:
		s.initAction(ex.Action)
	case ex.OutputFound:
		if s.output == nil {
			s.output = artifact.NewText(ex.Output)
		}
	default:
		logging.SubtaskDebug("Subtask %s: no action or output segment in input", s.id)
	}
}

// initAction decodes and validates one raw action literal. Any stage failure
// forces the subtask into the error branch with a model-facing diagnostic.
func (s *Subtask) initAction(raw string) {
	a, perr := action.Decode(raw)
	if perr != nil {
		s.fail(perr)
		return
	}

	s.actionType.Set(a.Type)
	s.actionName.Set(a.Name)
	s.actionMethod.Set(a.Method)

	if name := s.actionName.Get(); name != ErrorActionName {
		s.tool = s.owner.FindTool(name)
	}

	if a.HasInput {
		s.actionInput.Set(a.Input)
	}

	// Input validation needs a resolved tool. Without one the subtask falls
	// through to the "tool not found" outcome at run time instead.
	if s.tool != nil {
		if perr := action.ValidateInput(s.tool, s.actionMethod.Get(), s.actionInput.Get()); perr != nil {
			s.fail(perr)
		}
	}
}

// fail transitions the subtask to the error branch: actionName becomes the
// error sentinel, actionInput carries the stage diagnostic, and any resolved
// tool is dropped so run cannot dispatch.
func (s *Subtask) fail(perr *action.ParseError) {
	logging.SubtaskError("Subtask %s parse failed (%s): %v", s.id, perr.Kind, perr.Err)

	var diagnostic string
	switch perr.Kind {
	case action.KindSyntax:
		diagnostic = fmt.Sprintf("syntax error: %v", perr.Err)
	case action.KindSchema, action.KindInput:
		diagnostic = fmt.Sprintf("action validation error: %v", perr.Err)
	default:
		diagnostic = genericParseText
	}

	s.actionName.force(ErrorActionName)
	s.actionInput.force(diagnostic)
	s.tool = nil
}

// Run executes the subtask and returns its artifact. Run never propagates a
// failure: every outcome, including dispatch errors, lands in the returned
// artifact. A subtask whose output is already resolved returns it unchanged.
func (s *Subtask) Run(ctx context.Context) artifact.Artifact {
	if s.output != nil {
		return s.output
	}

	logging.Subtask("Subtask %s\n%s", s.id, s.rawInput)

	s.output = s.execute(ctx)

	logging.Subtask("Subtask %s\nObservation: %s", s.id, s.output.Value())
	return s.output
}

func (s *Subtask) execute(ctx context.Context) artifact.Artifact {
	if s.owner == nil {
		return artifact.NewError("subtask executed before attachment", "")
	}

	if s.IsError() {
		return artifact.NewError(s.actionInput.Get(), s.owner.ID())
	}

	if s.tool == nil {
		return artifact.NewText(toolNotFoundText)
	}

	out, err := s.owner.Executor().Execute(ctx, executor.Call{
		Tool:   s.tool,
		Method: s.actionMethod.Get(),
		Input:  []byte(s.actionInput.Get()),
	})
	if err != nil {
		logging.SubtaskError("Subtask %s dispatch failed: %v", s.id, err)
		return artifact.NewErrorWithCause(err.Error(), s.owner.ID(), err)
	}

	return artifact.NewText(string(out))
}

// AddChild records child under this subtask and this subtask as child's
// parent. Both sides are deduplicated; self-links are ignored. Calling twice
// with the same pair is a no-op the second time.
func (s *Subtask) AddChild(child *Subtask) *Subtask {
	if child == nil || child.id == s.id {
		return child
	}
	s.childIDs = appendUnique(s.childIDs, child.id)
	child.parentIDs = appendUnique(child.parentIDs, s.id)
	return child
}

// AddParent records parent over this subtask. Symmetric with AddChild.
func (s *Subtask) AddParent(parent *Subtask) *Subtask {
	if parent == nil || parent.id == s.id {
		return parent
	}
	s.parentIDs = appendUnique(s.parentIDs, parent.id)
	parent.childIDs = appendUnique(parent.childIDs, s.id)
	return parent
}

// ParentIDs returns a copy of the parent id sequence.
func (s *Subtask) ParentIDs() []string {
	return append([]string(nil), s.parentIDs...)
}

// ChildIDs returns a copy of the child id sequence.
func (s *Subtask) ChildIDs() []string {
	return append([]string(nil), s.childIDs...)
}

// Parents resolves parent ids to live subtasks through the owning task.
// Ids that no longer resolve are skipped.
func (s *Subtask) Parents() []*Subtask {
	return s.resolve(s.parentIDs)
}

// Children resolves child ids to live subtasks through the owning task.
func (s *Subtask) Children() []*Subtask {
	return s.resolve(s.childIDs)
}

func (s *Subtask) resolve(ids []string) []*Subtask {
	if s.owner == nil {
		return nil
	}
	out := make([]*Subtask, 0, len(ids))
	for _, id := range ids {
		if sub := s.owner.FindSubtask(id); sub != nil {
			out = append(out, sub)
		}
	}
	return out
}

// ToJSON serializes the parsed action fields back to their canonical JSON
// form. Unset fields are omitted, so a freshly-created subtask serializes to
// an empty object.
func (s *Subtask) ToJSON() (string, error) {
	fields := map[string]string{}
	if s.actionType.IsSet() {
		fields["type"] = s.actionType.Get()
	}
	if s.actionName.IsSet() {
		fields["name"] = s.actionName.Get()
	}
	if s.actionMethod.IsSet() {
		fields["method"] = s.actionMethod.Get()
	}
	if s.actionInput.IsSet() {
		fields["input"] = s.actionInput.Get()
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
