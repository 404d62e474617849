package sched

import (
	"fmt"
	"log/slog"
)

// PartitionedEDF schedules its tasks earliest-deadline-first on exactly
// one processor.
type PartitionedEDF struct {
	edfCore
	running *edfState
}

func NewPartitionedEDF(name string, logger *slog.Logger) *PartitionedEDF {
	return &PartitionedEDF{edfCore: newEDFCore(name, logger)}
}

// AddProcessor binds the single processor this scheduler drives.
func (s *PartitionedEDF) AddProcessor(p *Processor) error {
	if len(s.processors) > 0 {
		return fmt.Errorf("scheduler %q: processor %q: %w (partitioned EDF drives one processor)",
			s.name, p.Name(), ErrProcessorLimit)
	}
	return s.base.AddProcessor(p)
}

// Run decides the task for the given tick.
func (s *PartitionedEDF) Run(tick int64) error {
	if err := s.begin(); err != nil {
		return err
	}
	proc := s.processors[0]

	s.release(tick)

	running := s.running
	next := running

	// an earlier deadline in the ready queue forces a switch
	if top := s.ready.peek(); running != nil && top != nil && top.absDeadline < running.absDeadline {
		next = s.ready.pop()
	}

	// budget exhausted or idle: take the earliest deadline, if any
	if next == running && (running == nil || running.ticksRemaining == 0) {
		next = s.ready.pop()
	}

	if running != nil {
		s.checkMiss(tick, running, proc)
	}

	if next != running {
		if running != nil {
			if running.ticksRemaining == 0 {
				running.advance()
				if running.releaseTime == tick {
					// released again right now: let it compete with the selection
					s.ready.push(running)
					if next != nil {
						s.ready.push(next)
					}
					next = s.ready.pop()
				} else {
					s.waiting.push(running)
				}
			} else {
				s.ready.push(running)
			}
		}

		if next != nil {
			next.refill()
			next.missReported = false
		}
		if next != running {
			s.logSwitch(tick, proc, stateTask(running), stateTask(next))
		}
	}

	s.running = next
	proc.SetNext(stateTask(next))
	if next != nil {
		next.ticksRemaining--
	}
	return nil
}
