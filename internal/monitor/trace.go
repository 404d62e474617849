package monitor

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/google/uuid"

	"rtsim/internal/sched"
)

// TraceMonitor writes one CSV row per preemption, resumption and deadline
// miss, stamped with the run identifier.
type TraceMonitor struct {
	clock
	runID  uuid.UUID
	csv    *csv.Writer
	events []sched.Event
}

// NewTraceMonitor writes the header immediately.
func NewTraceMonitor(w io.Writer, runID uuid.UUID) *TraceMonitor {
	m := &TraceMonitor{
		runID: runID,
		csv:   csv.NewWriter(w),
	}
	m.csv.Write([]string{"run_id", "tick", "event", "task", "processor"})
	return m
}

func (m *TraceMonitor) AddProcessor(*sched.Processor) {}

func (m *TraceMonitor) AddTask(*sched.Task) {}

func (m *TraceMonitor) TaskConfigured(*sched.Task, sched.Params) {}

func (m *TraceMonitor) TaskPreempted(t *sched.Task, p *sched.Processor) {
	m.record(sched.Event{Tick: m.now, Kind: sched.EventPreempt, Task: t.Name(), Processor: p.Name()})
}

func (m *TraceMonitor) TaskResumed(t *sched.Task, p *sched.Processor) {
	m.record(sched.Event{Tick: m.now, Kind: sched.EventResume, Task: t.Name(), Processor: p.Name()})
}

func (m *TraceMonitor) DeadlineMissed(miss sched.DeadlineMiss) {
	m.record(sched.Event{Tick: miss.Tick, Kind: sched.EventDeadlineMiss, Task: miss.Task.Name(), Processor: miss.Processor.Name()})
}

// AdvanceTime flushes the rows of the finished tick.
func (m *TraceMonitor) AdvanceTime() {
	m.clock.AdvanceTime()
	m.csv.Flush()
}

func (m *TraceMonitor) SimulationFinished() {
	m.csv.Flush()
}

// Events returns everything recorded so far.
func (m *TraceMonitor) Events() []sched.Event { return m.events }

// Err reports the first write error, if any.
func (m *TraceMonitor) Err() error {
	m.csv.Flush()
	return m.csv.Error()
}

func (m *TraceMonitor) record(ev sched.Event) {
	m.events = append(m.events, ev)
	m.csv.Write([]string{
		m.runID.String(),
		strconv.FormatInt(ev.Tick, 10),
		ev.Kind.String(),
		ev.Task,
		ev.Processor,
	})
}
