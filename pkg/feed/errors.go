package feed

import "fmt"

// ErrorKind classifies the recoverable failures the feed surfaces. None
// of them are fatal; the state machine retries all of them on its own.
type ErrorKind string

const (
	// ErrNotReady means the readiness probe is failing; the server is not
	// accepting streams yet
	ErrNotReady ErrorKind = "not_ready"

	// ErrParse means an inbound message on a live connection was not a
	// valid snapshot; the session stays open
	ErrParse ErrorKind = "parse_error"

	// ErrConnectionLost means the transport closed or errored
	ErrConnectionLost ErrorKind = "connection_lost"
)

// Error is a feed failure surfaced to consumers through the status
// channel and LastError.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
