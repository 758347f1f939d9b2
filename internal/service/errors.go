// Package service holds the business rules for organizations, memberships,
// permissions, groups, trips and the fleet. Handlers stay thin: they bind the
// request, call one service method and translate the typed error into an HTTP
// response.
package service

import (
	"errors"
	"fmt"
)

// Kind classifies a business-rule rejection so callers can branch on
// semantics instead of matching message text.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindNotFound
	KindConflict
	KindForbidden
	KindRule
)

// Error is a business-rule rejection: a machine-readable kind plus a
// human-readable display message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Rule marks a domain-invariant violation, e.g. an illegal role transition.
func Rule(format string, args ...any) *Error {
	return &Error{Kind: KindRule, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain; unknown errors are internal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
