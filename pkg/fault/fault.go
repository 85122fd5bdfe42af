// Package fault defines the error taxonomy shared by the stores and the
// HTTP layer
package fault

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindStorage Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

// Detail points at a single offending field or value
type Detail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type Fault struct {
	Kind    Kind
	Message string
	Details []Detail
	Err     error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("[%s] %s", f.Kind, f.Message)
}

// Unwrap allows errors.Is and errors.As to work.
func (f *Fault) Unwrap() error {
	return f.Err
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "storage_error"
	}
}

func Validation(msg string, details ...Detail) error {
	return &Fault{Kind: KindValidation, Message: msg, Details: details}
}

func NotFound(msg string, details ...Detail) error {
	return &Fault{Kind: KindNotFound, Message: msg, Details: details}
}

func Conflict(msg string) error {
	return &Fault{Kind: KindConflict, Message: msg}
}

func Unauthorized(msg string) error {
	return &Fault{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) error {
	return &Fault{Kind: KindForbidden, Message: msg}
}

// Storage wraps a driver or transaction failure. A nil err yields nil so
// callers can wrap unconditionally.
func Storage(msg string, err error) error {
	if err == nil {
		return nil
	}

	var f *Fault
	if errors.As(err, &f) {
		return err
	}

	return &Fault{Kind: KindStorage, Message: msg, Err: err}
}

// KindOf reports the kind of err. Errors that aren't faults are storage
// errors.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindStorage
}

func Is(err error, k Kind) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind == k
	}
	return false
}
