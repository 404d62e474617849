// internal/sched/processor.go

package sched

// Processor is an execution resource. A scheduler writes next during its
// decision phase; the driver promotes it to current when committing the tick.
type Processor struct {
	name     string
	previous *Task // assignment before the last commit
	current  *Task // executing this tick, nil = idle
	next     *Task // scratch slot for the scheduler
}

func NewProcessor(name string) *Processor {
	return &Processor{name: name}
}

func (p *Processor) Name() string { return p.name }

func (p *Processor) Previous() *Task { return p.previous }

func (p *Processor) Current() *Task { return p.current }

func (p *Processor) Next() *Task { return p.next }

// SetNext selects the task to run in the tick being decided. nil is an
// explicit idle.
func (p *Processor) SetNext(t *Task) { p.next = t }

func (p *Processor) String() string { return p.name }

func (p *Processor) commit() {
	p.previous = p.current
	p.current = p.next
	p.next = nil
}
