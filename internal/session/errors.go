package session

import (
	"errors"
	"fmt"
)

var (
	ErrTerminated        = errors.New("session is terminated")
	ErrNoPendingQuestion = errors.New("no question is pending")
	ErrInvalidAnswer     = errors.New("answer must be 0 or 1")
)

// StateError reports an operation invoked on a session in the wrong state.
// The session is unchanged when one is returned.
type StateError struct {
	Op    string
	State State
	Err   error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s in state %s: %v", e.Op, e.State, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }
