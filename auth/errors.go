package auth

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a request was refused by the gate.
// The kind is kept for logs and metrics; clients only see the message.
type ErrorKind string

const (
	KindMissingCredential ErrorKind = "missing_credential"
	KindInvalidCredential ErrorKind = "invalid_credential"
	KindAccountNotFound   ErrorKind = "account_not_found"
)

var publicMessages = map[ErrorKind]string{
	KindMissingCredential: "Access denied. No token provided.",
	KindInvalidCredential: "Invalid or expired token",
	KindAccountNotFound:   "User not found.",
}

// Error is the tagged error returned by the token verifier and identity resolver.
type Error struct {
	Kind ErrorKind
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Message is the client-facing text for the error kind.
// Both invalid-signature and expired tokens share one message.
func (e *Error) Message() string {
	return MessageFor(e.Kind)
}

var (
	ErrMissingCredential = &Error{Kind: KindMissingCredential}
	ErrInvalidCredential = &Error{Kind: KindInvalidCredential}
	ErrAccountNotFound   = &Error{Kind: KindAccountNotFound}
)

func newError(kind ErrorKind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// MissingCredential wraps err as a missing-credential failure
func MissingCredential(err error) error {
	return newError(KindMissingCredential, err)
}

// InvalidCredential wraps err as an invalid-credential failure
func InvalidCredential(err error) error {
	return newError(KindInvalidCredential, err)
}

// AccountNotFound wraps err as an account-not-found failure
func AccountNotFound(err error) error {
	return newError(KindAccountNotFound, err)
}

// KindOf returns the gate error kind carried by err, or "" for any other error.
func KindOf(err error) ErrorKind {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return ""
}

// MessageFor returns the public message of kind
func MessageFor(kind ErrorKind) string {
	if msg, ok := publicMessages[kind]; ok {
		return msg
	}
	return "Authentication required"
}
