package sched

import (
	"fmt"
	"log/slog"
)

// edfState is an EDF scheduler's view of one task.
type edfState struct {
	task           *Task
	params         Params
	releaseTime    int64 // absolute instant of the current or most recent release
	absDeadline    int64 // releaseTime + params.Deadline
	ticksRemaining int64 // budget left in the current period, 0..params.WCET
	missReported   bool

	key   queueKey
	queue *edfQueue // queue holding the state, nil while running or idle
}

func newEDFState(t *Task, p Params) *edfState {
	s := &edfState{task: t}
	s.configure(p)
	return s
}

// configure applies params before the first release.
func (s *edfState) configure(p Params) {
	s.params = p
	s.releaseTime = p.StartTime
	s.absDeadline = p.StartTime + p.Deadline
}

// advance moves the task to its next period.
func (s *edfState) advance() {
	s.releaseTime += s.params.Period
	s.absDeadline = s.releaseTime + s.params.Deadline
}

// refill starts a new period's budget if the previous one was consumed and
// reports whether it did.
func (s *edfState) refill() bool {
	if s.ticksRemaining != 0 {
		return false
	}
	s.ticksRemaining = s.params.WCET
	return true
}

// TaskState is a read-only snapshot of a task's EDF bookkeeping.
type TaskState struct {
	WCET           int64
	Period         int64
	Deadline       int64
	ReleaseTime    int64
	AbsDeadline    int64
	TicksRemaining int64
}

// edfCore is shared by both EDF variants: one waiting queue ordered by
// release time and one ready queue ordered by absolute deadline.
type edfCore struct {
	base
	states  map[TaskID]*edfState
	waiting *edfQueue
	ready   *edfQueue
}

func newEDFCore(name string, logger *slog.Logger) edfCore {
	return edfCore{
		base:    newBase(name, logger),
		states:  make(map[TaskID]*edfState),
		waiting: newWaitingQueue(),
		ready:   newReadyQueue(),
	}
}

// AddTask registers t and queues it until its first release.
func (c *edfCore) AddTask(t *Task, params Params) error {
	if _, dup := c.states[t.ID]; dup {
		return fmt.Errorf("scheduler %q: task %q: %w", c.name, t.Name(), ErrDuplicateTask)
	}
	if err := c.checkConfigurable(t); err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("scheduler %q: task %q: %w", c.name, t.Name(), err)
	}

	s := newEDFState(t, params)
	c.states[t.ID] = s
	c.tasks = append(c.tasks, t)
	c.waiting.push(s)
	return nil
}

// SetParameter changes one option of a registered task before the run starts.
// PRIORITY is accepted and ignored.
func (c *edfCore) SetParameter(t *Task, kind Parameter, value int64) error {
	s, ok := c.states[t.ID]
	if !ok {
		return fmt.Errorf("scheduler %q: task %q: %w", c.name, t.Name(), ErrUnknownTask)
	}
	if err := c.checkConfigurable(t); err != nil {
		return err
	}
	params, err := s.params.With(kind, value)
	if err != nil {
		return fmt.Errorf("scheduler %q: task %q: %w", c.name, t.Name(), err)
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("scheduler %q: task %q: %w", c.name, t.Name(), err)
	}

	// the waiting queue is keyed by release time, which may change
	c.waiting.remove(s)
	s.configure(params)
	c.waiting.push(s)
	return nil
}

// State returns a snapshot of the task's EDF bookkeeping.
func (c *edfCore) State(t *Task) (TaskState, bool) {
	s, ok := c.states[t.ID]
	if !ok {
		return TaskState{}, false
	}
	return TaskState{
		WCET:           s.params.WCET,
		Period:         s.params.Period,
		Deadline:       s.params.Deadline,
		ReleaseTime:    s.releaseTime,
		AbsDeadline:    s.absDeadline,
		TicksRemaining: s.ticksRemaining,
	}, true
}

// Ready lists the released tasks in deadline order.
func (c *edfCore) Ready() []*Task { return c.ready.tasks() }

// Waiting lists the unreleased tasks in release order.
func (c *edfCore) Waiting() []*Task { return c.waiting.tasks() }

// release moves every task whose release time has come to the ready queue.
func (c *edfCore) release(tick int64) {
	for {
		s := c.waiting.peek()
		if s == nil || s.releaseTime > tick {
			return
		}
		c.waiting.pop()
		c.ready.push(s)
	}
}

// state maps a processor slot back to our view of the task.
func (c *edfCore) state(t *Task) *edfState {
	if t == nil {
		return nil
	}
	return c.states[t.ID]
}

// checkMiss reports a running task that still has budget at its deadline.
// The report is suppressed until the task is switched out.
func (c *edfCore) checkMiss(tick int64, s *edfState, p *Processor) {
	if s.missReported || s.ticksRemaining == 0 || s.absDeadline > tick {
		return
	}
	s.missReported = true
	c.reportMiss(DeadlineMiss{
		Tick:           tick,
		Scheduler:      c.name,
		Task:           s.task,
		Processor:      p,
		AbsDeadline:    s.absDeadline,
		TicksRemaining: s.ticksRemaining,
	})
}

func stateTask(s *edfState) *Task {
	if s == nil {
		return nil
	}
	return s.task
}
