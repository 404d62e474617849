package sched

import (
	"errors"
	"fmt"
)

// Parameter names one scheduling option of a task.
type Parameter int

const (
	ParamWCET Parameter = iota
	ParamStartTime
	ParamPeriod
	ParamDeadline
	ParamPriority
)

func (p Parameter) String() string {
	switch p {
	case ParamWCET:
		return "WCET"
	case ParamStartTime:
		return "START_TIME"
	case ParamPeriod:
		return "PERIOD"
	case ParamDeadline:
		return "DEADLINE"
	case ParamPriority:
		return "PRIORITY"
	default:
		return fmt.Sprintf("Parameter(%d)", int(p))
	}
}

// Params is the complete scheduling configuration of a periodic task.
// All values are in ticks except Priority, which EDF policies ignore.
type Params struct {
	WCET      int64 // execution budget per period
	StartTime int64 // first release instant
	Period    int64 // inter-release interval
	Deadline  int64 // relative deadline
	Priority  int64 // static priority
}

// Validate reports every missing or out of range field.
func (p Params) Validate() error {
	var errs []error
	if p.WCET <= 0 {
		errs = append(errs, fmt.Errorf("wcet %d should be > 0", p.WCET))
	}
	if p.StartTime < 0 {
		errs = append(errs, fmt.Errorf("start time %d should be >= 0", p.StartTime))
	}
	if p.Period <= 0 {
		errs = append(errs, fmt.Errorf("period %d should be > 0", p.Period))
	}
	if p.Deadline <= 0 {
		errs = append(errs, fmt.Errorf("deadline %d should be > 0", p.Deadline))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidParams, errors.Join(errs...))
}

// Utilization is the fraction of a processor the task demands.
func (p Params) Utilization() float64 {
	if p.Period <= 0 {
		return 0
	}
	return float64(p.WCET) / float64(p.Period)
}

// With returns a copy of p with one field replaced.
func (p Params) With(kind Parameter, value int64) (Params, error) {
	switch kind {
	case ParamWCET:
		p.WCET = value
	case ParamStartTime:
		p.StartTime = value
	case ParamPeriod:
		p.Period = value
	case ParamDeadline:
		p.Deadline = value
	case ParamPriority:
		p.Priority = value
	default:
		return p, fmt.Errorf("%w: %s", ErrUnknownParameter, kind)
	}
	return p, nil
}
