package service

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
)

// Error carries a message safe to show to a caller. Err holds the cause and
// is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// catches every not-found error whatever its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrInternal   = &Error{Kind: KindInternal}
	ErrValidation = &Error{Kind: KindValidation}
)

func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string, cause error) error {
	return &Error{Kind: KindNotFound, Message: message, Err: cause}
}

func Internal(message string, cause error) error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// KindOf classifies any error; errors that are not *Error are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-safe message of err or fallback.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
