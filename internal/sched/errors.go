package sched

import "errors"

var (
	ErrNoProcessors     = errors.New("no processors defined")
	ErrUnknownTask      = errors.New("task not registered with scheduler")
	ErrDuplicateTask    = errors.New("task already registered")
	ErrInvalidParams    = errors.New("invalid scheduling parameters")
	ErrUnknownParameter = errors.New("unknown scheduling parameter")
	ErrProcessorLimit   = errors.New("processor limit reached")
	ErrNoTaskSet        = errors.New("no task set bound to processor")
	ErrStarted          = errors.New("scheduler already started")
	ErrDoubleAssignment = errors.New("task current on more than one processor")
)
