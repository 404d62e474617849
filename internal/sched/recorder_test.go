package sched

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder is an Observer that keeps everything it is told.
type recorder struct {
	procs      []*Processor
	tasks      []*Task
	configured map[TaskID]Params
	events     []Event
	misses     []DeadlineMiss
	schedule   [][]string // committed task per tick and processor, "-" = idle
	tick       int64
	finished   int
}

func newRecorder() *recorder {
	return &recorder{configured: make(map[TaskID]Params)}
}

func (r *recorder) AddProcessor(p *Processor) { r.procs = append(r.procs, p) }

func (r *recorder) AddTask(t *Task) { r.tasks = append(r.tasks, t) }

func (r *recorder) TaskConfigured(t *Task, p Params) { r.configured[t.ID] = p }

func (r *recorder) TaskPreempted(t *Task, p *Processor) {
	r.events = append(r.events, Event{Tick: r.tick, Kind: EventPreempt, Task: t.Name(), Processor: p.Name()})
}

func (r *recorder) TaskResumed(t *Task, p *Processor) {
	r.events = append(r.events, Event{Tick: r.tick, Kind: EventResume, Task: t.Name(), Processor: p.Name()})
}

func (r *recorder) DeadlineMissed(m DeadlineMiss) { r.misses = append(r.misses, m) }

func (r *recorder) AdvanceTime() {
	row := make([]string, len(r.procs))
	for i, p := range r.procs {
		row[i] = "-"
		if t := p.Current(); t != nil {
			row[i] = t.Name()
		}
	}
	r.schedule = append(r.schedule, row)
	r.tick++
}

func (r *recorder) SimulationFinished() { r.finished++ }

// column returns the schedule of one processor.
func (r *recorder) column(i int) []string {
	out := make([]string, len(r.schedule))
	for tick, row := range r.schedule {
		out[tick] = row[i]
	}
	return out
}

func (r *recorder) eventsAt(tick int64) []Event {
	var out []Event
	for _, ev := range r.events {
		if ev.Tick == tick {
			out = append(out, ev)
		}
	}
	return out
}

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

// countingBody counts the ticks it was granted.
type countingBody struct {
	name  string
	ticks []int64
}

func (b *countingBody) Name() string { return b.name }

func (b *countingBody) Step(tick int64) { b.ticks = append(b.ticks, tick) }

// rig wires one scheduler, its processors and tasks into a driver.
type rig struct {
	driver *Driver
	rec    *recorder
	procs  []*Processor
	tasks  map[string]*Task
}

func newRig(t *testing.T, s Scheduler, procs ...string) *rig {
	t.Helper()
	r := &rig{
		driver: NewDriver(DefaultConfig(), quietLogger()),
		rec:    newRecorder(),
		tasks:  make(map[string]*Task),
	}
	r.driver.AddObserver(r.rec)
	r.driver.AddScheduler(s)
	for _, name := range procs {
		p := NewProcessor(name)
		require.NoError(t, s.AddProcessor(p))
		r.driver.AddProcessor(p)
		r.procs = append(r.procs, p)
	}
	return r
}

func (r *rig) addTask(t *testing.T, s Scheduler, name string, params Params) *Task {
	t.Helper()
	task := NewTask(TaskID(len(r.tasks)+1), name, nil)
	r.driver.AddTask(task)
	require.NoError(t, s.AddTask(task, params))
	r.driver.ConfigureTask(task, params)
	r.tasks[name] = task
	return task
}

func (r *rig) steps(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, r.driver.Step())
	}
}
