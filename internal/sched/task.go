// internal/sched/task.go

package sched

import "fmt"

// TaskID uniquely identifies a task in the simulation.
type TaskID uint64

// Body is the externally driven unit of work behind a task.
// The driver calls Step exactly once for every tick the task is current on
// a processor; a body must do at most one tick of work per call.
type Body interface {
	Name() string
	Step(tick int64)
}

// Task represents one periodic schedulable unit. Scheduling state is not
// stored here: every scheduler keeps its own view of the tasks it owns.
type Task struct {
	ID   TaskID
	Body Body // not owned; nil means there is nothing to step
	name string
}

// NewTask creates a task. The name is used only when body is nil.
func NewTask(id TaskID, name string, body Body) *Task {
	return &Task{
		ID:   id,
		Body: body,
		name: name,
	}
}

// Name returns the body's name, falling back to the name given at creation.
func (t *Task) Name() string {
	if t.Body != nil {
		return t.Body.Name()
	}
	return t.name
}

func (t *Task) String() string {
	return fmt.Sprintf("%s(#%d)", t.Name(), t.ID)
}

// grant hands the body permission to execute one tick of work.
func (t *Task) grant(tick int64) {
	if t.Body != nil {
		t.Body.Step(tick)
	}
}

// taskName is nil-safe and renders an idle slot as "IDLE".
func taskName(t *Task) string {
	if t == nil {
		return "IDLE"
	}
	return t.Name()
}
