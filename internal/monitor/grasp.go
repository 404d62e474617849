package monitor

import (
	"bufio"
	"fmt"
	"io"

	"rtsim/internal/sched"
)

var graspColors = []string{"#666666", "#EEEEEE", "#333333", "#AAAAAA"}

type graspTask struct {
	id            string
	params        sched.Params
	currentPeriod int64
	lastResume    int64
	etThisPeriod  int64
	processor     *sched.Processor
	running       bool
}

// GraspMonitor writes a trace for the Grasp schedule visualizer.
type GraspMonitor struct {
	clock
	w         *bufio.Writer
	tasks     []*sched.Task
	info      map[*sched.Task]*graspTask
	procIDs   map[*sched.Processor]string
	lastColor int
}

func NewGraspMonitor(w io.Writer) *GraspMonitor {
	return &GraspMonitor{
		w:       bufio.NewWriter(w),
		info:    make(map[*sched.Task]*graspTask),
		procIDs: make(map[*sched.Processor]string),
	}
}

func (m *GraspMonitor) AddProcessor(p *sched.Processor) {
	id := fmt.Sprintf("p%d", len(m.procIDs))
	m.procIDs[p] = id
	fmt.Fprintf(m.w, "newProcessor %s -name \"%s\"\n", id, p.Name())
}

func (m *GraspMonitor) AddTask(t *sched.Task) {
	ti := m.task(t)
	fmt.Fprintf(m.w, "newTask %s -name \"%s\" -color %s\n", ti.id, t.Name(), graspColors[m.lastColor])
	m.lastColor = (m.lastColor + 1) % len(graspColors)
}

func (m *GraspMonitor) TaskConfigured(t *sched.Task, params sched.Params) {
	m.task(t).params = params
}

func (m *GraspMonitor) TaskPreempted(t *sched.Task, p *sched.Processor) {
	ti := m.task(t)
	ti.etThisPeriod += m.now - ti.lastResume
	ti.running = false

	fmt.Fprintf(m.w, "plot %d jobPreempted %s.0\n", m.now, ti.id)
	if ti.etThisPeriod >= ti.params.WCET {
		fmt.Fprintf(m.w, "plot %d jobCompleted %s.0\n", m.now, ti.id)
	}
}

func (m *GraspMonitor) TaskResumed(t *sched.Task, p *sched.Processor) {
	ti := m.task(t)
	if ti.params.Period > 0 {
		// first sighting in a period means a new job was released
		period := (m.now - ti.params.StartTime) / ti.params.Period
		if period != ti.currentPeriod {
			arrived := period*ti.params.Period + ti.params.StartTime
			ti.currentPeriod = period
			ti.etThisPeriod = 0
			fmt.Fprintf(m.w, "plot %d jobArrived %s.0 %s -processor %s\n", arrived, ti.id, ti.id, m.procIDs[p])
		}
	}

	fmt.Fprintf(m.w, "plot %d jobResumed %s.0 -processor %s\n", m.now, ti.id, m.procIDs[p])
	ti.lastResume = m.now
	ti.processor = p
	ti.running = true
}

// SimulationFinished closes the jobs still running and flushes the trace.
func (m *GraspMonitor) SimulationFinished() {
	for _, t := range m.tasks {
		if ti := m.info[t]; ti.running {
			m.TaskPreempted(t, ti.processor)
		}
	}
	m.w.Flush()
}

// Err reports the first write error, if any.
func (m *GraspMonitor) Err() error {
	return m.w.Flush()
}

func (m *GraspMonitor) task(t *sched.Task) *graspTask {
	ti, ok := m.info[t]
	if !ok {
		ti = &graspTask{id: fmt.Sprintf("t%d", t.ID), currentPeriod: -1}
		m.info[t] = ti
		m.tasks = append(m.tasks, t)
	}
	return ti
}
