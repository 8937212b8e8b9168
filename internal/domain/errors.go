package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures for callers: validation errors are
// caught before any write, not-found errors name a missing record, and
// store errors carry the underlying transport failure unchanged.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindStore      ErrorKind = "store"
)

// Error is the structured failure every operation reports; a zero
// value never stands in for one.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// StoreErr wraps a record-store failure. Already-classified errors
// pass through so a not-found from the store keeps its kind.
func StoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindStore, Message: op, Err: err}
}

func IsValidation(err error) bool { return kindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return kindOf(err) == KindNotFound }
func IsStore(err error) bool      { return kindOf(err) == KindStore }

func kindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
