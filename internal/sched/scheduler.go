// internal/sched/scheduler.go

package sched

import (
	"fmt"
	"log/slog"
)

// Scheduler is one scheduling policy instance. Run is invoked exactly once
// per tick by the driver and must leave every owned processor with an
// explicit next assignment, nil included.
type Scheduler interface {
	Name() string
	AddProcessor(p *Processor) error
	AddTask(t *Task, params Params) error
	SetParameter(t *Task, kind Parameter, value int64) error
	Run(tick int64) error
	Processors() []*Processor
	OnDeadlineMiss(fn func(DeadlineMiss))
}

// base holds the bookkeeping every policy shares.
type base struct {
	name       string
	logger     *slog.Logger
	processors []*Processor
	tasks      []*Task
	started    bool
	onMiss     func(DeadlineMiss)
}

func newBase(name string, logger *slog.Logger) base {
	if logger == nil {
		logger = slog.Default()
	}
	return base{
		name:   name,
		logger: logger.With("component", "scheduler", "scheduler", name),
	}
}

func (b *base) Name() string { return b.name }

func (b *base) Processors() []*Processor { return b.processors }

// Tasks returns the tasks in registration order.
func (b *base) Tasks() []*Task { return b.tasks }

func (b *base) OnDeadlineMiss(fn func(DeadlineMiss)) { b.onMiss = fn }

func (b *base) AddProcessor(p *Processor) error {
	for _, owned := range b.processors {
		if owned == p {
			return fmt.Errorf("scheduler %q: processor %q added twice", b.name, p.Name())
		}
	}
	b.processors = append(b.processors, p)
	return nil
}

func (b *base) owns(p *Processor) bool {
	for _, owned := range b.processors {
		if owned == p {
			return true
		}
	}
	return false
}

// begin is called at the top of every Run.
func (b *base) begin() error {
	if len(b.processors) == 0 {
		return fmt.Errorf("scheduler %q: %w", b.name, ErrNoProcessors)
	}
	b.started = true
	return nil
}

func (b *base) checkConfigurable(t *Task) error {
	if b.started {
		return fmt.Errorf("scheduler %q: configure task %q: %w", b.name, t.Name(), ErrStarted)
	}
	return nil
}

func (b *base) reportMiss(m DeadlineMiss) {
	b.logger.Warn("task missed its deadline",
		"tick", m.Tick,
		"task", m.Task.Name(),
		"processor", m.Processor.Name(),
		"abs_deadline", m.AbsDeadline,
		"ticks_remaining", m.TicksRemaining,
	)
	if b.onMiss != nil {
		b.onMiss(m)
	}
}

func (b *base) logSwitch(tick int64, p *Processor, from, to *Task) {
	b.logger.Debug("switch",
		"tick", tick,
		"processor", p.Name(),
		"from", taskName(from),
		"to", taskName(to),
	)
}
