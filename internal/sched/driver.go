// internal/sched/driver.go

package sched

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-collections/collections/queue"
)

// transition is one commit-time change on a processor.
type transition struct {
	task      *Task
	processor *Processor
}

// Driver advances virtual time one tick at a time. It owns the schedulers
// and processors; only its tick loop touches scheduler state.
type Driver struct {
	clock      *TickClock
	schedulers []Scheduler
	processors []*Processor
	tasks      []*Task
	params     map[TaskID]Params
	observers  []Observer
	logger     *slog.Logger

	preempted *queue.Queue // drained before resumed on every tick
	resumed   *queue.Queue
	finished  bool
}

// NewDriver creates a driver paced by cfg.TickMS.
func NewDriver(cfg Config, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		clock:     NewTickClock(time.Duration(cfg.TickMS) * time.Millisecond),
		params:    make(map[TaskID]Params),
		logger:    logger.With("component", "driver"),
		preempted: queue.New(),
		resumed:   queue.New(),
	}
}

// Tick returns the number of the next tick to execute.
func (d *Driver) Tick() int64 { return d.clock.Count() }

func (d *Driver) Processors() []*Processor { return d.processors }

func (d *Driver) Schedulers() []Scheduler { return d.schedulers }

func (d *Driver) Tasks() []*Task { return d.tasks }

// AddScheduler registers s; schedulers run in registration order.
func (d *Driver) AddScheduler(s Scheduler) {
	s.OnDeadlineMiss(d.deadlineMissed)
	d.schedulers = append(d.schedulers, s)
}

func (d *Driver) AddProcessor(p *Processor) {
	d.processors = append(d.processors, p)
	for _, o := range d.observers {
		o.AddProcessor(p)
	}
}

func (d *Driver) AddTask(t *Task) {
	d.tasks = append(d.tasks, t)
	for _, o := range d.observers {
		o.AddTask(t)
	}
}

// ConfigureTask publishes a task's parameters to every observer.
func (d *Driver) ConfigureTask(t *Task, params Params) {
	d.params[t.ID] = params
	for _, o := range d.observers {
		o.TaskConfigured(t, params)
	}
}

// AddObserver registers o and replays the processors and tasks that were
// registered before it.
func (d *Driver) AddObserver(o Observer) {
	d.observers = append(d.observers, o)
	for _, p := range d.processors {
		o.AddProcessor(p)
	}
	for _, t := range d.tasks {
		o.AddTask(t)
		if params, ok := d.params[t.ID]; ok {
			o.TaskConfigured(t, params)
		}
	}
}

func (d *Driver) deadlineMissed(m DeadlineMiss) {
	for _, o := range d.observers {
		if do, ok := o.(DeadlineObserver); ok {
			do.DeadlineMissed(m)
		}
	}
}

// Step executes exactly one tick: every scheduler decides, transitions are
// announced, processors commit and the newly current tasks get permission
// to run.
func (d *Driver) Step() error {
	tick := d.clock.Count()
	if len(d.processors) == 0 {
		return fmt.Errorf("tick %d: %w", tick, ErrNoProcessors)
	}

	for _, s := range d.schedulers {
		if err := s.Run(tick); err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}
	}

	for _, p := range d.processors {
		if p.current == p.next {
			continue
		}
		if p.current != nil {
			d.preempted.Enqueue(transition{task: p.current, processor: p})
		}
		if p.next != nil {
			d.resumed.Enqueue(transition{task: p.next, processor: p})
		}
	}
	for d.preempted.Len() > 0 {
		tr := d.preempted.Dequeue().(transition)
		for _, o := range d.observers {
			o.TaskPreempted(tr.task, tr.processor)
		}
	}
	for d.resumed.Len() > 0 {
		tr := d.resumed.Dequeue().(transition)
		for _, o := range d.observers {
			o.TaskResumed(tr.task, tr.processor)
		}
	}

	running := make(map[*Task]*Processor, len(d.processors))
	for _, p := range d.processors {
		p.commit()
		if p.current == nil {
			continue
		}
		if other, dup := running[p.current]; dup {
			return fmt.Errorf("tick %d: task %q on processors %q and %q: %w",
				tick, p.current.Name(), other.Name(), p.Name(), ErrDoubleAssignment)
		}
		running[p.current] = p
	}
	// permissions only once the whole commit is consistent
	for _, p := range d.processors {
		if p.current != nil {
			p.current.grant(tick)
		}
	}

	for _, o := range d.observers {
		o.AdvanceTime()
	}
	d.clock.Advance()
	return nil
}

// Run steps until the clock reaches horizon, then finishes the simulation.
// The context is only consulted between ticks.
func (d *Driver) Run(ctx context.Context, horizon int64) error {
	defer d.clock.Stop()

	d.logger.Info("simulation started",
		"horizon", horizon,
		"schedulers", len(d.schedulers),
		"processors", len(d.processors),
		"tasks", len(d.tasks),
	)
	for d.clock.Count() < horizon {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Step(); err != nil {
			return err
		}
		if err := d.clock.Pace(ctx); err != nil {
			return err
		}
	}
	d.Finish()
	d.logger.Info("simulation finished", "ticks", d.clock.Count())
	return nil
}

// Finish flushes every observer once.
func (d *Driver) Finish() {
	if d.finished {
		return
	}
	d.finished = true
	for _, o := range d.observers {
		o.SimulationFinished()
	}
}
