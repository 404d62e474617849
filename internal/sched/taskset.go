package sched

// TaskSet is an ordered, static group of tasks bound to one processor.
// Only policies that partition statically (round-robin) use it.
type TaskSet struct {
	processor *Processor
	tasks     []*Task
}

func NewTaskSet(p *Processor, tasks ...*Task) *TaskSet {
	return &TaskSet{processor: p, tasks: tasks}
}

func (ts *TaskSet) Add(t *Task) { ts.tasks = append(ts.tasks, t) }

func (ts *TaskSet) Tasks() []*Task { return ts.tasks }

func (ts *TaskSet) Processor() *Processor { return ts.processor }
