// internal/sched/schedulerEvent.go

package sched

// EventKind represents the type of scheduling event
type EventKind int

const (
	EventPreempt EventKind = iota
	EventResume
	EventDeadlineMiss
)

// Event is one observable transition, as recorded by tracing observers.
type Event struct {
	Tick      int64
	Kind      EventKind
	Task      string
	Processor string
}

func (k EventKind) String() string {
	switch k {
	case EventPreempt:
		return "preempt"
	case EventResume:
		return "resume"
	case EventDeadlineMiss:
		return "deadline_miss"
	default:
		return "unknown"
	}
}

// DeadlineMiss describes a task still holding budget at or past its
// absolute deadline. It is reported once per overrun episode.
type DeadlineMiss struct {
	Tick           int64
	Scheduler      string
	Task           *Task
	Processor      *Processor
	AbsDeadline    int64
	TicksRemaining int64
}

// Observer receives registration, configuration and commit-time
// transitions from the driver. All calls happen on the driver's goroutine.
type Observer interface {
	AddProcessor(p *Processor)
	AddTask(t *Task)
	TaskConfigured(t *Task, params Params)
	// TaskPreempted and TaskResumed are delivered per tick with every
	// preemption before any resumption.
	TaskPreempted(t *Task, p *Processor)
	TaskResumed(t *Task, p *Processor)
	AdvanceTime()
	SimulationFinished()
}

// DeadlineObserver is implemented by observers that want deadline misses.
type DeadlineObserver interface {
	DeadlineMissed(m DeadlineMiss)
}
