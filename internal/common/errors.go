// Package common defines the closed error taxonomy shared by all server
// layers. Repositories and gateways return sentinel errors; workflows classify
// them into a Kind, and the HTTP layer translates Kind to a status code in a
// single place. Callers should use errors.Is / errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level sentinels.
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")

	// Auth-level sentinels.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Kind is the classification a workflow assigns to a failure before it is
// surfaced. The set is closed: transport maps each kind to exactly one status.
type Kind int

const (
	KindValidation  Kind = iota // missing or empty required input
	KindConflict                // duplicate handle or contact address
	KindNotFound                // no matching identity
	KindAuth                    // bad credentials or invalid/expired/rotated token
	KindUpload                  // remote asset store failure
	KindPersistence             // record store failure not classified above
)

// String returns a short label for logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindUpload:
		return "upload"
	default:
		return "persistence"
	}
}

// Error is a classified application error. Message is safe to show to API
// clients; Err keeps the underlying cause for logs and errors.Is matching.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func NewConflict(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }
func NewNotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func NewAuth(msg string) *Error       { return &Error{Kind: KindAuth, Message: msg} }

func NewUpload(msg string, err error) *Error {
	return &Error{Kind: KindUpload, Message: msg, Err: err}
}

func NewPersistence(msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: msg, Err: err}
}

// KindOf extracts the classification from err. The second return value is
// false when err was never classified, which transport must treat as an
// internal failure rather than exposing the raw error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindPersistence, false
}
