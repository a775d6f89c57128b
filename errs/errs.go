// Package errs defines the error kinds returned by the data access layer.
//
// Every accessor error is an *Error tagged with a Kind, so callers can branch
// with errors.Is against the sentinels below without string matching:
//
//	if errors.Is(err, errs.ErrNoRowsAffected) { ... }
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an accessor failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindStorage wraps an engine or connectivity failure.
	KindStorage
	// KindPrecondition means the caller broke an accessor precondition.
	// No statement was issued.
	KindPrecondition
	// KindNoRowsAffected means a write completed but reported no affected row
	// or no generated key.
	KindNoRowsAffected
)

func (k Kind) String() string {
	switch k {
	case KindStorage:
		return "storage fault"
	case KindPrecondition:
		return "precondition violation"
	case KindNoRowsAffected:
		return "no rows affected"
	default:
		return "unknown"
	}
}

// Error is the tagged error carried out of every accessor operation.
type Error struct {
	Kind Kind
	// Op names the accessor operation, e.g. "user.create".
	Op  string
	Msg string
	Err error
}

var (
	ErrStorage        = &Error{Kind: KindStorage}
	ErrPrecondition   = &Error{Kind: KindPrecondition}
	ErrNoRowsAffected = &Error{Kind: KindNoRowsAffected}
)

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so the package sentinels work with
// errors.Is regardless of Op and Msg.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Storage wraps a lower-level failure. A nil err yields nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindStorage, Op: op, Err: err}
}

func Precondition(op, msg string) error {
	return &Error{Kind: KindPrecondition, Op: op, Msg: msg}
}

func NoRowsAffected(op, msg string) error {
	return &Error{Kind: KindNoRowsAffected, Op: op, Msg: msg}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
