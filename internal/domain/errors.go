package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error raised by the engine wraps one of these so callers
// can classify failures with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

var (
	ErrPercentOutOfRange  = fmt.Errorf("%w: percent complete must be between 0 and 100", ErrValidation)
	ErrParentNotFound     = fmt.Errorf("%w: parent task not found", ErrValidation)
	ErrParentCycle        = fmt.Errorf("%w: parent chain would form a loop", ErrValidation)
	ErrMissingPredecessor = fmt.Errorf("%w: predecessor task not found", ErrValidation)
	ErrDependencyCycle    = fmt.Errorf("%w: circular dependency", ErrValidation)
	ErrInvalidDateRange   = fmt.Errorf("%w: end date must be after start date", ErrValidation)
	ErrInvalidTransition  = fmt.Errorf("%w: status transition not allowed", ErrValidation)
	ErrNegativeDuration   = fmt.Errorf("%w: duration and lag must not be negative", ErrValidation)
	ErrAlreadyInitialized = fmt.Errorf("%w: project already initialized", ErrValidation)
	ErrDuplicateTemplate  = fmt.Errorf("%w: duplicate template name", ErrValidation)
)
