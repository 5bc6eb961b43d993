package job

import (
	"errors"
	"fmt"

	"github.com/xraph/batch"
)

// Failure is the reason a job ended in the Failed state. The set is
// closed: every non-successful outcome maps to exactly one value.
type Failure uint8

const (
	// FailureError means the handler returned an error.
	FailureError Failure = iota
	// FailureTimeout means the handler exceeded the job's timeout.
	FailureTimeout
	// FailureCrash means the handler terminated abnormally (panicked).
	FailureCrash
)

var failureNames = [...]string{
	FailureError:   "error",
	FailureTimeout: "timeout",
	FailureCrash:   "crash",
}

func (f Failure) String() string {
	if int(f) >= len(failureNames) {
		return fmt.Sprintf("Failure(%d)", uint8(f))
	}
	return failureNames[f]
}

// ParseFailure parses the text form of a failure reason.
func ParseFailure(s string) (Failure, error) {
	for f, name := range failureNames {
		if s == name {
			return Failure(f), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown failure %q", batch.ErrInvalidStatus, s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Failure) MarshalText() ([]byte, error) {
	if int(f) >= len(failureNames) {
		return nil, fmt.Errorf("%w: failure %d", batch.ErrInvalidStatus, uint8(f))
	}
	return []byte(failureNames[f]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Failure) UnmarshalText(text []byte) error {
	v, err := ParseFailure(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// PanicError carries a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("job panicked: %v", e.Value)
}

// Classify maps a handler error onto its Failure. Only batch.ErrTimeout,
// which the timeout middleware returns when the job's own deadline passes,
// is a timeout. A context.DeadlineExceeded raised by the handler itself
// (a downstream client deadline, an expired caller context) is an ordinary
// error. A *PanicError is a crash. Callers pass a non-nil error; use Outcome when
// the handler may have succeeded.
func Classify(err error) Failure {
	var pe *PanicError
	switch {
	case errors.As(err, &pe):
		return FailureCrash
	case errors.Is(err, batch.ErrTimeout):
		return FailureTimeout
	default:
		return FailureError
	}
}

// Outcome returns the terminal status for a handler result: Success for a
// nil error, otherwise Failed with the classified reason.
func Outcome(err error) Status {
	if err == nil {
		return Success()
	}
	return Failed(Classify(err))
}
