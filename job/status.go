package job

import (
	"fmt"
	"strings"

	"github.com/xraph/batch"
)

// State is the lifecycle position of a job instance.
type State uint8

const (
	// StatePending is the initial state: published, not yet picked up.
	StatePending State = iota
	// StateStarted means a worker is executing the job.
	StateStarted
	// StateSuccess is terminal: the handler completed.
	StateSuccess
	// StateFailed is terminal and always carries a Failure.
	StateFailed
)

var stateNames = [...]string{
	StatePending: "pending",
	StateStarted: "started",
	StateSuccess: "success",
	StateFailed:  "failed",
}

func (s State) String() string {
	if int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", uint8(s))
	}
	return stateNames[s]
}

// Status is the closed sum of Pending, Started, Success and
// Failed(Failure). The zero value is Pending. Statuses are comparable with
// ==.
type Status struct {
	state   State
	failure Failure
}

// Pending returns the initial status.
func Pending() Status { return Status{state: StatePending} }

// Started returns the status of a running job.
func Started() Status { return Status{state: StateStarted} }

// Success returns the terminal success status.
func Success() Status { return Status{state: StateSuccess} }

// Failed returns the terminal failure status with reason f.
func Failed(f Failure) Status { return Status{state: StateFailed, failure: f} }

// State returns the variant of s.
func (s Status) State() State { return s.state }

// Failure returns the failure reason and true when s is Failed.
func (s Status) Failure() (Failure, bool) {
	if s.state != StateFailed {
		return 0, false
	}
	return s.failure, true
}

// IsTerminal reports whether no further transition can follow s.
func (s Status) IsTerminal() bool {
	return s.state == StateSuccess || s.state == StateFailed
}

// Transition returns next if moving from s to next is allowed:
// Pending to Started, and Started to Success or Failed.
func (s Status) Transition(next Status) (Status, error) {
	ok := false
	switch s.state {
	case StatePending:
		ok = next.state == StateStarted
	case StateStarted:
		ok = next.state == StateSuccess || next.state == StateFailed
	}
	if !ok {
		return s, fmt.Errorf("%w: %s -> %s", batch.ErrInvalidState, s, next)
	}
	return next, nil
}

// String returns the text form: "pending", "started", "success", or
// "failed:<reason>".
func (s Status) String() string {
	if s.state == StateFailed {
		return "failed:" + s.failure.String()
	}
	return s.state.String()
}

// ParseStatus parses the text form produced by String.
func ParseStatus(text string) (Status, error) {
	if reason, ok := strings.CutPrefix(text, "failed:"); ok {
		f, err := ParseFailure(reason)
		if err != nil {
			return Status{}, err
		}
		return Failed(f), nil
	}
	switch text {
	case "pending":
		return Pending(), nil
	case "started":
		return Started(), nil
	case "success":
		return Success(), nil
	}
	return Status{}, fmt.Errorf("%w: %q", batch.ErrInvalidStatus, text)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if int(s.state) >= len(stateNames) {
		return nil, fmt.Errorf("%w: state %d", batch.ErrInvalidStatus, uint8(s.state))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
