package monitor

import (
	"fmt"
	"io"
	"strings"

	"rtsim/internal/sched"
)

// TaskStats accumulates what one task did during the run.
type TaskStats struct {
	ExecutionTime  int64
	Migrations     int // placements on a processor other than the last one; the first placement is free
	DeadlineMisses int

	proc       *sched.Processor
	lastResume int64
	running    bool
}

// StatsMonitor collects execution time, migrations and utilization.
type StatsMonitor struct {
	clock
	tasks     []*sched.Task
	procs     []*sched.Processor
	taskStats map[*sched.Task]*TaskStats
	procUtil  map[*sched.Processor]int64
}

func NewStatsMonitor() *StatsMonitor {
	return &StatsMonitor{
		taskStats: make(map[*sched.Task]*TaskStats),
		procUtil:  make(map[*sched.Processor]int64),
	}
}

func (m *StatsMonitor) AddProcessor(p *sched.Processor) {
	m.procs = append(m.procs, p)
	m.procUtil[p] = 0
}

func (m *StatsMonitor) AddTask(t *sched.Task) {
	m.tasks = append(m.tasks, t)
	m.taskStats[t] = &TaskStats{}
}

func (m *StatsMonitor) TaskConfigured(*sched.Task, sched.Params) {}

func (m *StatsMonitor) TaskPreempted(t *sched.Task, p *sched.Processor) {
	ts := m.stats(t)
	m.account(ts)
	ts.running = false
}

func (m *StatsMonitor) TaskResumed(t *sched.Task, p *sched.Processor) {
	ts := m.stats(t)
	ts.lastResume = m.now
	ts.running = true
	if ts.proc != p {
		if ts.proc != nil {
			ts.Migrations++
		}
		ts.proc = p
	}
}

func (m *StatsMonitor) DeadlineMissed(miss sched.DeadlineMiss) {
	m.stats(miss.Task).DeadlineMisses++
}

// SimulationFinished accounts for tasks still running at the end.
func (m *StatsMonitor) SimulationFinished() {
	for _, t := range m.tasks {
		ts := m.taskStats[t]
		if ts.running {
			m.account(ts)
			ts.lastResume = m.now
		}
	}
}

func (m *StatsMonitor) account(ts *TaskStats) {
	ran := m.now - ts.lastResume
	ts.ExecutionTime += ran
	m.procUtil[ts.proc] += ran
}

func (m *StatsMonitor) stats(t *sched.Task) *TaskStats {
	ts, ok := m.taskStats[t]
	if !ok {
		m.AddTask(t)
		ts = m.taskStats[t]
	}
	return ts
}

// Task returns the statistics gathered for t.
func (m *StatsMonitor) Task(t *sched.Task) TaskStats {
	if ts, ok := m.taskStats[t]; ok {
		return *ts
	}
	return TaskStats{}
}

// Utilization is the fraction of elapsed ticks p spent executing a task.
func (m *StatsMonitor) Utilization(p *sched.Processor) float64 {
	if m.now == 0 {
		return 0
	}
	return float64(m.procUtil[p]) / float64(m.now)
}

const tableRule = "+--------------------+--------------------+--------------------+\n"

func writeTableRow(w io.Writer, s1, s2, s3 string) {
	fmt.Fprintf(w, "| %-19s| %-19s| %-19s|\n", s1, s2, s3)
}

func writeTableTitle(w io.Writer, title string) {
	const width = 62
	pad := (width - len(title)) / 2
	fmt.Fprint(w, tableRule)
	fmt.Fprintf(w, "|%s%s%s|\n", strings.Repeat(" ", pad), title, strings.Repeat(" ", width-pad-len(title)))
	fmt.Fprint(w, tableRule)
	writeTableRow(w, "Name", "Metric", "Value")
	fmt.Fprint(w, tableRule)
}

// WriteStats renders the task and processor tables.
func (m *StatsMonitor) WriteStats(w io.Writer) {
	writeTableTitle(w, "Task statistics")
	var totalET int64
	var totalMigrations, totalMisses int
	for _, t := range m.tasks {
		ts := m.taskStats[t]
		writeTableRow(w, t.Name(), "Execution time", fmt.Sprint(ts.ExecutionTime))
		writeTableRow(w, "", "Migrations", fmt.Sprint(ts.Migrations))
		writeTableRow(w, "", "Deadline misses", fmt.Sprint(ts.DeadlineMisses))
		totalET += ts.ExecutionTime
		totalMigrations += ts.Migrations
		totalMisses += ts.DeadlineMisses
	}
	fmt.Fprint(w, tableRule)
	writeTableRow(w, "Total", "Execution time", fmt.Sprint(totalET))
	writeTableRow(w, "", "Migrations", fmt.Sprint(totalMigrations))
	writeTableRow(w, "", "Deadline misses", fmt.Sprint(totalMisses))
	fmt.Fprint(w, tableRule)
	fmt.Fprintln(w)

	writeTableTitle(w, "Processor statistics")
	var totalUtil int64
	for _, p := range m.procs {
		writeTableRow(w, p.Name(), "Utilization", fmt.Sprintf("%.6f", m.Utilization(p)))
		totalUtil += m.procUtil[p]
	}
	fmt.Fprint(w, tableRule)
	total := 0.0
	if m.now > 0 {
		total = float64(totalUtil) / float64(m.now)
	}
	writeTableRow(w, "Total", "Utilization", fmt.Sprintf("%.6f", total))
	fmt.Fprint(w, tableRule)
}
