package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindNotFound
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindStore:
		return "store"
	}
	return "unknown"
}

// Error is the single error type returned across repository and service
// boundaries. Handlers turn it into a status code with Status.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg != "" {
		return e.Msg + ": " + e.Err.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind when target carries no message,
// so errors.Is(err, apperr.ErrNotFound) works for every not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Msg == "" && t.Err == nil
}

var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrStore        = &Error{Kind: KindStore}
)

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Msg: msg}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Store wraps a failure of the underlying database. A nil err yields nil.
func Store(msg string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: KindStore, Msg: msg, Err: err}
}

// Partial reports a multi-write operation whose primary write committed but
// whose secondary write failed after all retries. The secondary write has
// been queued for reconciliation under QueueID.
type Partial struct {
	Primary string
	Failed  string
	QueueID int64
	Err     error
}

func (p *Partial) Error() string {
	return fmt.Sprintf("%s committed but %s failed: %v", p.Primary, p.Failed, p.Err)
}

func (p *Partial) Unwrap() error { return p.Err }

// Status maps an error to the HTTP status code returned to callers.
func Status(err error) int {
	var p *Partial
	if errors.As(err, &p) {
		return http.StatusMultiStatus
	}
	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case KindValidation:
			return http.StatusBadRequest
		case KindUnauthorized:
			return http.StatusUnauthorized
		case KindNotFound:
			return http.StatusNotFound
		}
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsPartial(err error) bool {
	var p *Partial
	return errors.As(err, &p)
}
