package task

import (
	"github.com/google/uuid"

	"actioncore/internal/executor"
	"actioncore/internal/logging"
	"actioncore/internal/tools"
)

// Task owns an ordered sequence of subtasks and the collaborators they need:
// the tool registry for name resolution and the executor for dispatch.
//
// A task is touched by one lifecycle at a time. Subtasks never mutate shared
// task state beyond their own fields, and the registry is lookup-only, so no
// locking lives here. Concurrency across tasks is the caller's concern.
type Task struct {
	id       string
	registry *tools.Registry
	exec     executor.Executor

	subtasks []*Subtask
	byID     map[string]*Subtask
}

// NewTask creates a task over the given registry and executor.
// A nil executor defaults to in-process dispatch.
func NewTask(registry *tools.Registry, exec executor.Executor) *Task {
	if exec == nil {
		exec = executor.NewDirect()
	}
	t := &Task{
		id:       uuid.New().String(),
		registry: registry,
		exec:     exec,
		byID:     make(map[string]*Subtask),
	}
	logging.TaskDebug("Task %s created", t.id)
	return t
}

// ID returns the task's unique id.
func (t *Task) ID() string { return t.id }

// Executor returns the execution boundary subtasks dispatch through.
func (t *Task) Executor() executor.Executor { return t.exec }

// FindTool resolves a tool by name, or nil when no tool is registered
// under that name.
func (t *Task) FindTool(name string) *tools.Tool {
	if t.registry == nil {
		return nil
	}
	return t.registry.Get(name)
}

// FindSubtask resolves a subtask by id, or nil when unknown.
func (t *Task) FindSubtask(id string) *Subtask {
	return t.byID[id]
}

// AddSubtask attaches the subtask to this task and appends it to the
// sequence. The previous tail becomes the new subtask's parent, so appended
// subtasks form a chain by default; callers can add further edges through
// AddChild/AddParent. Returns the subtask for chaining.
func (t *Task) AddSubtask(s *Subtask) *Subtask {
	if s == nil {
		return nil
	}
	if _, exists := t.byID[s.id]; exists {
		return s
	}

	s.Attach(t)

	if len(t.subtasks) > 0 {
		t.subtasks[len(t.subtasks)-1].AddChild(s)
	}

	t.subtasks = append(t.subtasks, s)
	t.byID[s.id] = s

	logging.TaskDebug("Task %s: subtask %s added (%d total)", t.id, s.id, len(t.subtasks))
	return s
}

// Subtasks returns the subtasks in insertion order.
func (t *Task) Subtasks() []*Subtask {
	return append([]*Subtask(nil), t.subtasks...)
}

// LastSubtask returns the most recently added subtask, or nil when empty.
func (t *Task) LastSubtask() *Subtask {
	if len(t.subtasks) == 0 {
		return nil
	}
	return t.subtasks[len(t.subtasks)-1]
}

// OrderedSubtasks walks the graph from its roots in breadth-first order.
// Roots are subtasks with no parents, visited in insertion order; each
// subtask appears once even when reachable along multiple edges.
func (t *Task) OrderedSubtasks() []*Subtask {
	var queue []*Subtask
	for _, s := range t.subtasks {
		if len(s.parentIDs) == 0 {
			queue = append(queue, s)
		}
	}

	seen := make(map[string]bool, len(t.subtasks))
	var ordered []*Subtask
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if seen[s.id] {
			continue
		}
		seen[s.id] = true
		ordered = append(ordered, s)
		queue = append(queue, s.Children()...)
	}
	return ordered
}

// ClearSubtasks drops all subtasks from the task.
func (t *Task) ClearSubtasks() {
	t.subtasks = nil
	t.byID = make(map[string]*Subtask)
}
