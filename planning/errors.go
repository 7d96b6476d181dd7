package planning

import "errors"

// Sentinel causes. Compute never returns these directly; they are always
// wrapped by *ValidationError or *SchedulingError so callers can use
// errors.Is while a human reader still gets the required substring
// ("required", "cycle", "negative", "integer", or a generic out-of-range
// description) in Error().
var (
	ErrMachinesRequired = errors.New("machine count required")
	ErrNegativeValue    = errors.New("negative value")
	ErrNotInteger       = errors.New("non-integer value")
	ErrOutOfRange       = errors.New("index out of range")
	ErrCycle            = errors.New("dependency cycle")
)

// ValidationError reports that an Instance failed Validate, or that its
// JSON/YAML encoding contained a malformed numeric field.
type ValidationError struct {
	Cause   error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Cause }

// SchedulingError reports a failure discovered while running Compute
// itself, as opposed to a problem with the input shape.
type SchedulingError struct {
	Cause   error
	Message string
}

func (e *SchedulingError) Error() string { return e.Message }
func (e *SchedulingError) Unwrap() error { return e.Cause }
