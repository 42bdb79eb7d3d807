package errs

import "errors"

// Sentinel errors shared across the usecase layers.
var (
	// ErrNotFound marks lifecycle transitions referencing an id that is not
	// present in the in-memory collections.
	ErrNotFound = errors.New("not found")

	// ErrTransport marks network or backing-store failures. The cause is
	// preserved through wrapping for logging; callers only branch on the mark.
	ErrTransport = errors.New("transport failure")
)

// ValidationError reports a required field missing before a mutation is
// attempted. It is caught at the command boundary and never reaches the
// transport.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing required field: " + e.Field
}

func NewValidation(field string) error {
	return &ValidationError{Field: field}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// InvalidStateError reports a transition attempted from a state that forbids
// it. Status carries the current stored status so scanning UIs can surface
// "reservation not valid, status: X" verbatim.
type InvalidStateError struct {
	Status string
}

func (e *InvalidStateError) Error() string {
	return "reservation not valid, status: " + e.Status
}

func NewInvalidState(status string) error {
	return &InvalidStateError{Status: status}
}

// NewNotFound builds a lookup failure for the named record.
func NewNotFound(what string) error {
	return Mark(New(what+" not found"), ErrNotFound)
}

// MarkTransport tags err as a transport failure while keeping the cause.
func MarkTransport(err error) error {
	return Mark(err, ErrTransport)
}

func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
