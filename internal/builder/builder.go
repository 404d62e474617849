// Package builder turns a validated system description into schedulers,
// processors and tasks registered with a driver.
package builder

import (
	"fmt"
	"log/slog"

	"rtsim/internal/sched"
	"rtsim/internal/system"
)

// BodyFactory creates the body of a described task. It may return nil.
type BodyFactory func(t *system.Task) sched.Body

// Builder wires a system description into a driver.
type Builder struct {
	sys    *system.System
	driver *sched.Driver
	cfg    sched.Config
	logger *slog.Logger

	schedulers  map[string]sched.Scheduler                  // global and static, by description name
	partitioned map[string]map[string]*sched.PartitionedEDF // scheduler -> processor -> instance
	processors  map[string]*sched.Processor
	tasks       map[string]*sched.Task

	maxStart    int64
	hyperperiod int64
}

// New creates the schedulers and processors of sys. sys must have passed
// system.Validate.
func New(sys *system.System, d *sched.Driver, cfg sched.Config, logger *slog.Logger) (*Builder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Builder{
		sys:         sys,
		driver:      d,
		cfg:         cfg,
		logger:      logger.With("component", "builder"),
		schedulers:  make(map[string]sched.Scheduler),
		partitioned: make(map[string]map[string]*sched.PartitionedEDF),
		processors:  make(map[string]*sched.Processor),
		tasks:       make(map[string]*sched.Task),
		maxStart:    -1,
		hyperperiod: 1,
	}

	for _, s := range sys.Schedulers {
		if err := b.createScheduler(s); err != nil {
			return nil, err
		}
	}
	for _, p := range sys.Processors {
		if err := b.createProcessor(p); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Builder) createScheduler(s *system.Scheduler) error {
	switch s.Algorithm {
	case system.AlgorithmEDF:
		switch s.Type {
		case system.TopologyPartitioned:
			// one instance per processor, created with the processors
			b.partitioned[s.Name] = make(map[string]*sched.PartitionedEDF)
			return nil
		case system.TopologyGlobal:
			b.register(s.Name, sched.NewGlobalEDF(s.Name, b.logger))
			return nil
		default:
			return fmt.Errorf("unsupported type %q for EDF scheduler %q", s.Type, s.Name)
		}
	case system.AlgorithmStatic:
		switch s.Type {
		case system.TopologyPartitioned, system.TopologyGlobal:
			b.register(s.Name, sched.NewRoundRobin(s.Name, b.cfg.Quantum, b.logger))
			return nil
		default:
			return fmt.Errorf("unsupported type %q for static scheduler %q", s.Type, s.Name)
		}
	default:
		return fmt.Errorf("unsupported scheduling algorithm %q for scheduler %q", s.Algorithm, s.Name)
	}
}

func (b *Builder) register(name string, s sched.Scheduler) {
	b.schedulers[name] = s
	b.driver.AddScheduler(s)
}

func (b *Builder) createProcessor(p *system.Processor) error {
	proc := sched.NewProcessor(p.Name)
	b.processors[p.Name] = proc
	b.driver.AddProcessor(proc)

	desc := p.ResolvedScheduler()
	if desc == nil {
		return fmt.Errorf("scheduler for processor %q not found", p.Name)
	}
	if instances, ok := b.partitioned[desc.Name]; ok {
		s := sched.NewPartitionedEDF(desc.Name+"/"+p.Name, b.logger)
		if err := s.AddProcessor(proc); err != nil {
			return err
		}
		instances[p.Name] = s
		b.driver.AddScheduler(s)
		return nil
	}
	s, ok := b.schedulers[desc.Name]
	if !ok {
		return fmt.Errorf("internal error: no scheduler object for scheduler %q", desc.Name)
	}
	return s.AddProcessor(proc)
}

// Build creates every described task, registers it with its scheduler and
// the driver, and binds static task sets.
func (b *Builder) Build(bodies BodyFactory) ([]*sched.Task, error) {
	tasks := make([]*sched.Task, 0, len(b.sys.Tasks))
	for i, desc := range b.sys.Tasks {
		var body sched.Body
		if bodies != nil {
			body = bodies(desc)
		}
		t := sched.NewTask(sched.TaskID(i+1), desc.Name, body)
		if err := b.createTask(t, desc); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := b.bindTaskSets(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (b *Builder) createTask(t *sched.Task, desc *system.Task) error {
	s, err := b.SchedulerForTask(desc.Name)
	if err != nil {
		return err
	}
	params := Params(desc)

	b.tasks[desc.Name] = t
	b.driver.AddTask(t)
	if err := s.AddTask(t, params); err != nil {
		return err
	}
	b.driver.ConfigureTask(t, params)

	if desc.StartTime > b.maxStart {
		b.maxStart = desc.StartTime
	}
	b.hyperperiod = lcm(b.hyperperiod, desc.Period)
	return nil
}

// Params derives scheduling parameters; the budget covers reading,
// computing and writing.
func Params(desc *system.Task) sched.Params {
	return sched.Params{
		WCET:      desc.WCET + desc.ReadDelay + desc.WriteDelay,
		StartTime: desc.StartTime,
		Period:    desc.Period,
		Deadline:  desc.Deadline,
		Priority:  desc.Priority,
	}
}

// SchedulerForTask finds the scheduler whose mapping places the task.
func (b *Builder) SchedulerForTask(name string) (sched.Scheduler, error) {
	if b.sys.Task(name) == nil {
		return nil, fmt.Errorf("couldn't find task information for %q", name)
	}

	var mapping *system.Mapping
	for _, m := range b.sys.Mappings {
		if m.Contains(name) {
			mapping = m
			break
		}
	}
	if mapping == nil {
		return nil, fmt.Errorf("internal error: task %q does not appear in a mapping", name)
	}

	var desc *system.Scheduler
	for _, s := range b.sys.Schedulers {
		if s.ResolvedMapping() == mapping {
			desc = s
			break
		}
	}
	if desc == nil {
		return nil, fmt.Errorf("mapping %q is not used by any scheduler", mapping.Name)
	}

	if instances, ok := b.partitioned[desc.Name]; ok {
		for _, e := range mapping.Entries {
			if !contains(e.Tasks, name) {
				continue
			}
			s, ok := instances[e.Processor]
			if !ok {
				return nil, fmt.Errorf("task %q mapped to processor %q, which is not driven by scheduler %q",
					name, e.Processor, desc.Name)
			}
			return s, nil
		}
	}

	s, ok := b.schedulers[desc.Name]
	if !ok {
		return nil, fmt.Errorf("internal error: no scheduler object for scheduler %q", desc.Name)
	}
	return s, nil
}

// bindTaskSets gives every static scheduler one task set per mapping entry.
func (b *Builder) bindTaskSets() error {
	for _, desc := range b.sys.Schedulers {
		rr, ok := b.schedulers[desc.Name].(*sched.RoundRobin)
		if !ok {
			continue
		}
		for _, e := range desc.ResolvedMapping().Entries {
			proc, ok := b.processors[e.Processor]
			if !ok {
				return fmt.Errorf("processor %q for mapping %q not found", e.Processor, desc.Mapping)
			}
			ts := sched.NewTaskSet(proc)
			for _, name := range e.Tasks {
				ts.Add(b.tasks[name])
			}
			if err := rr.AddTaskSet(ts); err != nil {
				return err
			}
		}
	}
	return nil
}

// Processor returns the processor created for the named description.
func (b *Builder) Processor(name string) *sched.Processor { return b.processors[name] }

// Task returns the task created for the named description.
func (b *Builder) Task(name string) *sched.Task { return b.tasks[name] }

// FifoSize returns the capacity of a channel, or def when none is described.
func (b *Builder) FifoSize(name string, def int) int {
	f := b.sys.Fifo(name)
	if f == nil {
		b.logger.Warn("no size defined for fifo, assuming default", "fifo", name, "size", def)
		return def
	}
	return f.Size
}

// DefaultHorizon covers the latest first release plus two hyperperiods.
func (b *Builder) DefaultHorizon() int64 {
	return b.maxStart + 2*b.hyperperiod
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int64) int64 {
	return a / gcd(a, b) * b
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
