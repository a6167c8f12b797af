// internal/pkg/apperr/errors.go
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the machine-readable error classification returned to clients.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindDuplicate         Kind = "duplicate"
	KindValidation        Kind = "validation"
	KindInsufficientStock Kind = "insufficient_stock"
	KindInvalidAdjustment Kind = "invalid_adjustment"
	KindReferenced        Kind = "referenced"
	KindFeatureDisabled   Kind = "feature_disabled"
	KindPersistence       Kind = "persistence"
)

// Error carries a stable kind plus a human-readable detail message.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two errors by kind so callers can use errors.Is with the
// sentinel constructors below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// HTTPStatus maps the error kind to its transport status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicate, KindReferenced:
		return http.StatusConflict
	case KindValidation, KindInsufficientStock, KindInvalidAdjustment, KindFeatureDisabled:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Detail: fmt.Sprintf(format, args...)}
}

func Duplicate(format string, args ...interface{}) *Error {
	return &Error{Kind: KindDuplicate, Detail: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Detail: fmt.Sprintf(format, args...)}
}

func InsufficientStock(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInsufficientStock, Detail: fmt.Sprintf(format, args...)}
}

func InvalidAdjustment(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidAdjustment, Detail: fmt.Sprintf(format, args...)}
}

func Referenced(format string, args ...interface{}) *Error {
	return &Error{Kind: KindReferenced, Detail: fmt.Sprintf(format, args...)}
}

func FeatureDisabled(format string, args ...interface{}) *Error {
	return &Error{Kind: KindFeatureDisabled, Detail: fmt.Sprintf(format, args...)}
}

// Persistence wraps an unexpected storage error.
func Persistence(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindPersistence, Detail: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or KindPersistence for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// StatusOf returns the HTTP status for err, 500 for untyped errors.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}
