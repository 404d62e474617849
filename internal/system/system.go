// Package system describes a simulated platform: schedulers, tasks,
// processors, the mappings between them and channel capacities.
package system

import "fmt"

// Algorithm is the scheduling algorithm of a scheduler description.
type Algorithm string

const (
	AlgorithmNull   Algorithm = "null"
	AlgorithmStatic Algorithm = "static"
	AlgorithmEDF    Algorithm = "EDF"
)

// Topology says how a scheduler spreads tasks over its processors.
type Topology string

const (
	TopologyGlobal      Topology = "global"
	TopologyPartitioned Topology = "partitioned"
	TopologyHybrid      Topology = "hybrid-semipartitioned"
)

// TaskType says whether a task may migrate between processors.
type TaskType string

const (
	TaskFixed     TaskType = "fixed"
	TaskMigrating TaskType = "migrating"
)

// Scheduler describes one scheduler instance.
type Scheduler struct {
	Name      string    `yaml:"name"`
	Algorithm Algorithm `yaml:"algorithm"`
	Type      Topology  `yaml:"type"`
	Mapping   string    `yaml:"mapping"`

	mapping *Mapping
}

// ResolvedMapping is set by Validate.
func (s *Scheduler) ResolvedMapping() *Mapping { return s.mapping }

// Task describes one periodic task. All times are in ticks.
type Task struct {
	Name       string   `yaml:"name"`
	WCET       int64    `yaml:"wcet"`
	ReadDelay  int64    `yaml:"read_delay"`
	WriteDelay int64    `yaml:"write_delay"`
	StartTime  int64    `yaml:"start_time"`
	Period     int64    `yaml:"period"`
	Deadline   int64    `yaml:"deadline"`
	Priority   int64    `yaml:"priority"`
	Type       TaskType `yaml:"type"`
}

// Processor describes one processor and the scheduler driving it.
type Processor struct {
	Name      string `yaml:"name"`
	Scheduler string `yaml:"scheduler"`

	scheduler *Scheduler
}

// ResolvedScheduler is set by Validate.
func (p *Processor) ResolvedScheduler() *Scheduler { return p.scheduler }

// Mapping assigns tasks to processors.
type Mapping struct {
	Name    string          `yaml:"name"`
	Entries []*MappingEntry `yaml:"processors"`
}

// MappingEntry lists the tasks placed on one processor.
type MappingEntry struct {
	Processor string   `yaml:"name"`
	Tasks     []string `yaml:"tasks"`

	processor *Processor
	tasks     []*Task
}

// ResolvedProcessor is set by Validate.
func (e *MappingEntry) ResolvedProcessor() *Processor { return e.processor }

// ResolvedTasks is set by Validate.
func (e *MappingEntry) ResolvedTasks() []*Task { return e.tasks }

// Contains reports whether the mapping places the named task anywhere.
func (m *Mapping) Contains(task string) bool {
	for _, e := range m.Entries {
		for _, name := range e.Tasks {
			if name == task {
				return true
			}
		}
	}
	return false
}

// Fifo is the capacity of a named channel between tasks.
type Fifo struct {
	Name string `yaml:"name"`
	Size int    `yaml:"size"`
}

// System is the whole description, in file order.
type System struct {
	Schedulers []*Scheduler `yaml:"schedulers"`
	Tasks      []*Task      `yaml:"tasks"`
	Processors []*Processor `yaml:"processors"`
	Mappings   []*Mapping   `yaml:"mappings"`
	Fifos      []*Fifo      `yaml:"fifos"`
}

func (s *System) Scheduler(name string) *Scheduler {
	for _, sc := range s.Schedulers {
		if sc.Name == name {
			return sc
		}
	}
	return nil
}

func (s *System) Task(name string) *Task {
	for _, t := range s.Tasks {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (s *System) Processor(name string) *Processor {
	for _, p := range s.Processors {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (s *System) Mapping(name string) *Mapping {
	for _, m := range s.Mappings {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (s *System) Fifo(name string) *Fifo {
	for _, f := range s.Fifos {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (s *System) String() string {
	return fmt.Sprintf("%d schedulers, %d tasks, %d processors, %d mappings, %d fifos",
		len(s.Schedulers), len(s.Tasks), len(s.Processors), len(s.Mappings), len(s.Fifos))
}
