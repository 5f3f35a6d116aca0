package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so adapters can map them to responses
// without inspecting causes.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindUpstreamProvider
	KindPersistence
	KindConfiguration
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUpstreamProvider:
		return "upstream_provider"
	case KindPersistence:
		return "persistence"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is the error type returned across the service boundary.
// Field is only set for validation errors.
type Error struct {
	Kind  ErrorKind
	Op    string
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Msg != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// ValidationError reports a missing or malformed input field.
func ValidationError(op, field, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Field: field, Msg: msg}
}

// UpstreamProviderError wraps a model provider failure.
func UpstreamProviderError(op string, err error) error {
	return &Error{Kind: KindUpstreamProvider, Op: op, Err: err}
}

// PersistenceError wraps a document store failure.
func PersistenceError(op string, err error) error {
	return &Error{Kind: KindPersistence, Op: op, Err: err}
}

// ConfigurationError reports an invalid or missing startup setting.
func ConfigurationError(op, msg string, err error) error {
	return &Error{Kind: KindConfiguration, Op: op, Msg: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
