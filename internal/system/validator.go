package system

import (
	"errors"
	"fmt"
)

// Validate checks every element, resolves the references between them and
// reports all problems at once.
func Validate(sys *System) error {
	var errs []error
	report := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	checkNames(sys, report)

	for _, s := range sys.Schedulers {
		switch s.Algorithm {
		case AlgorithmNull, AlgorithmStatic, AlgorithmEDF:
		default:
			report("invalid algorithm %q for scheduler %q", s.Algorithm, s.Name)
		}
		switch s.Type {
		case TopologyGlobal, TopologyPartitioned, TopologyHybrid:
		default:
			report("invalid scheduler type %q for scheduler %q", s.Type, s.Name)
		}
		s.mapping = sys.Mapping(s.Mapping)
		if s.mapping == nil {
			report("mapping %q for scheduler %q not found", s.Mapping, s.Name)
		}
	}

	for _, t := range sys.Tasks {
		validateTask(t, report)
	}

	for _, p := range sys.Processors {
		p.scheduler = sys.Scheduler(p.Scheduler)
		if p.scheduler == nil {
			report("scheduler %q for processor %q not found", p.Scheduler, p.Name)
		}
	}

	for _, m := range sys.Mappings {
		for _, e := range m.Entries {
			e.processor = sys.Processor(e.Processor)
			if e.processor == nil {
				report("processor %q for mapping %q not found", e.Processor, m.Name)
			}
			e.tasks = e.tasks[:0]
			for _, name := range e.Tasks {
				t := sys.Task(name)
				if t == nil {
					report("task %q for mapping %q not found", name, m.Name)
					continue
				}
				e.tasks = append(e.tasks, t)
			}
		}
	}

	for _, f := range sys.Fifos {
		if f.Size <= 0 {
			report("size for fifo %q should be > 0", f.Name)
		}
	}

	return errors.Join(errs...)
}

func validateTask(t *Task, report func(string, ...any)) {
	if t.WCET <= 0 {
		report("wcet for task %q should be > 0", t.Name)
	}
	if t.ReadDelay < 0 {
		report("read delay for task %q should be >= 0", t.Name)
	}
	if t.WriteDelay < 0 {
		report("write delay for task %q should be >= 0", t.Name)
	}
	if t.StartTime < 0 {
		report("start time for task %q should be >= 0", t.Name)
	}
	if t.Period <= 0 {
		report("period for task %q should be > 0", t.Name)
	}
	if t.Deadline <= 0 {
		report("deadline for task %q should be > 0", t.Name)
	}
	if t.Priority <= 0 {
		report("priority for task %q should be > 0", t.Name)
	}
	if t.WCET > t.Period {
		report("wcet for task %q should be <= period", t.Name)
	}
	if t.Deadline > t.Period {
		report("deadline for task %q should be <= period", t.Name)
	}
	if t.WCET > t.Deadline {
		report("wcet for task %q should be <= deadline", t.Name)
	}
	switch t.Type {
	case TaskFixed, TaskMigrating:
	default:
		report("invalid task type %q for task %q", t.Type, t.Name)
	}
}

// checkNames requires printable ASCII names without spaces, unique per kind.
func checkNames(sys *System, report func(string, ...any)) {
	check := func(kind string, names []string) {
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			if !validName(name) {
				report("invalid %s name %q", kind, name)
			}
			if seen[name] {
				report("duplicate %s name %q", kind, name)
			}
			seen[name] = true
		}
	}

	names := func(n int, at func(int) string) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = at(i)
		}
		return out
	}
	check("scheduler", names(len(sys.Schedulers), func(i int) string { return sys.Schedulers[i].Name }))
	check("task", names(len(sys.Tasks), func(i int) string { return sys.Tasks[i].Name }))
	check("processor", names(len(sys.Processors), func(i int) string { return sys.Processors[i].Name }))
	check("mapping", names(len(sys.Mappings), func(i int) string { return sys.Mappings[i].Name }))
	check("fifo", names(len(sys.Fifos), func(i int) string { return sys.Fifos[i].Name }))
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if c < '!' || c > '~' {
			return false
		}
	}
	return true
}
