package sched

import (
	"fmt"
	"log/slog"
)

// DefaultQuantum is the number of consecutive ticks a task keeps its
// processor before rotation.
const DefaultQuantum = 2

// RoundRobin rotates a fixed quantum across the tasks statically assigned
// to each processor through task sets. It has no notion of deadlines.
type RoundRobin struct {
	base
	quantum  int64
	ticks    map[TaskID]int64 // quantum left before forced rotation
	tasksets []*TaskSet
	inSet    map[TaskID]*TaskSet
}

// NewRoundRobin creates the policy; quantum <= 0 selects DefaultQuantum.
func NewRoundRobin(name string, quantum int64, logger *slog.Logger) *RoundRobin {
	if quantum <= 0 {
		quantum = DefaultQuantum
	}
	return &RoundRobin{
		base:    newBase(name, logger),
		quantum: quantum,
		ticks:   make(map[TaskID]int64),
		inSet:   make(map[TaskID]*TaskSet),
	}
}

func (s *RoundRobin) Quantum() int64 { return s.quantum }

// AddTask registers t. Timing parameters do not influence rotation.
func (s *RoundRobin) AddTask(t *Task, _ Params) error {
	if _, dup := s.ticks[t.ID]; dup {
		return fmt.Errorf("scheduler %q: task %q: %w", s.name, t.Name(), ErrDuplicateTask)
	}
	if err := s.checkConfigurable(t); err != nil {
		return err
	}
	s.ticks[t.ID] = 0
	s.tasks = append(s.tasks, t)
	return nil
}

// SetParameter only checks that the option exists.
func (s *RoundRobin) SetParameter(t *Task, kind Parameter, value int64) error {
	if _, ok := s.ticks[t.ID]; !ok {
		return fmt.Errorf("scheduler %q: task %q: %w", s.name, t.Name(), ErrUnknownTask)
	}
	if _, err := (Params{}).With(kind, value); err != nil {
		return fmt.Errorf("scheduler %q: task %q: %w", s.name, t.Name(), err)
	}
	return nil
}

// AddTaskSet binds a static task list to one of the owned processors.
// Every task must be registered and belong to exactly one task set.
func (s *RoundRobin) AddTaskSet(ts *TaskSet) error {
	if !s.owns(ts.Processor()) {
		return fmt.Errorf("scheduler %q: task set for processor %q: processor not owned", s.name, ts.Processor().Name())
	}
	for _, t := range ts.Tasks() {
		if _, ok := s.ticks[t.ID]; !ok {
			return fmt.Errorf("scheduler %q: task set for processor %q: task %q: %w",
				s.name, ts.Processor().Name(), t.Name(), ErrUnknownTask)
		}
		if other, dup := s.inSet[t.ID]; dup && other != ts {
			return fmt.Errorf("scheduler %q: task %q already bound to processor %q",
				s.name, t.Name(), other.Processor().Name())
		}
	}
	for _, t := range ts.Tasks() {
		s.inSet[t.ID] = ts
	}
	s.tasksets = append(s.tasksets, ts)
	return nil
}

// tasksFor lists the tasks bound to p in task set and list order.
func (s *RoundRobin) tasksFor(p *Processor) []*Task {
	var out []*Task
	for _, ts := range s.tasksets {
		if ts.Processor() == p {
			out = append(out, ts.Tasks()...)
		}
	}
	return out
}

// Run picks, per processor, the first task with quantum left. When none
// has any, every quantum is reset and the first task in list order runs.
func (s *RoundRobin) Run(tick int64) error {
	if err := s.begin(); err != nil {
		return err
	}

	for _, p := range s.processors {
		tasks := s.tasksFor(p)
		if len(tasks) == 0 {
			return fmt.Errorf("scheduler %q: processor %q: %w", s.name, p.Name(), ErrNoTaskSet)
		}

		var run *Task
		for _, t := range tasks {
			if s.ticks[t.ID] > 0 {
				run = t
				break
			}
		}
		if run == nil {
			for _, t := range tasks {
				s.ticks[t.ID] = s.quantum
			}
			run = tasks[0]
		}

		if run != p.Current() {
			s.logSwitch(tick, p, p.Current(), run)
		}
		s.ticks[run.ID]--
		p.SetNext(run)
	}
	return nil
}
