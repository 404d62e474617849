package sched

import "log/slog"

// GlobalEDF feeds all of its processors from one shared ready queue.
// Processors are served in registration order, so earlier processors get
// first choice among equally eligible tasks. Tasks migrate freely.
type GlobalEDF struct {
	edfCore
}

func NewGlobalEDF(name string, logger *slog.Logger) *GlobalEDF {
	return &GlobalEDF{edfCore: newEDFCore(name, logger)}
}

// Run decides the tasks of every owned processor for the given tick.
func (s *GlobalEDF) Run(tick int64) error {
	if err := s.begin(); err != nil {
		return err
	}

	s.release(tick)

	// completion pass: requeue every task that used up its budget
	finished := make(map[*edfState]bool)
	for _, p := range s.processors {
		st := s.state(p.Current())
		if st == nil || st.ticksRemaining > 0 {
			continue
		}
		st.advance()
		finished[st] = true
		if st.releaseTime == tick {
			s.ready.push(st)
		} else {
			s.waiting.push(st)
		}
	}

	// allocation pass
	claimed := make(map[*edfState]bool)
	for _, p := range s.processors {
		st := s.state(p.Current())

		// a finished task, or one already taken by an earlier processor
		// this tick, leaves the processor idle
		active := st
		if st != nil && (finished[st] || claimed[st]) {
			active = nil
		}
		if active != nil {
			s.checkMiss(tick, active, p)
		}

		next := active
		if top := s.ready.peek(); top != nil && (active == nil || top.absDeadline < active.absDeadline || top == st) {
			next = s.ready.pop()
			// requeue the displaced task unless it is the one reinstated
			if active != nil && active != next {
				s.ready.push(active)
			}
		}

		if next != nil {
			claimed[next] = true
			// a new job or a switch starts a new overrun episode
			if next.refill() || next != st {
				next.missReported = false
			}
		}
		if next != st {
			s.logSwitch(tick, p, stateTask(st), stateTask(next))
		}

		p.SetNext(stateTask(next))
		if next != nil {
			next.ticksRemaining--
		}
	}
	return nil
}
