package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized means the collaborator answered 401. The caller's
// session has already been cleared by the time this is returned.
var ErrUnauthorized = errors.New("unauthorized")

// TransportError wraps a network-level failure: the request never got a
// response, so local state must stay untouched.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx answer that is not a 401.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("collaborator returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("collaborator returned %d", e.Status)
}
