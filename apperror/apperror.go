// Package apperror defines the error taxonomy shared by services and HTTP
// handlers. Services return *Error values (possibly wrapped); handlers map the
// Kind to a status code.
package apperror

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuthorization
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuthorization:
		return "authorization"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Machine-readable reasons carried alongside the kind.
const (
	ReasonInvalidInput      = "invalid_input"
	ReasonAmountMismatch    = "amount_mismatch"
	ReasonCourseNotFound    = "course_not_found"
	ReasonLessonNotFound    = "lesson_not_found"
	ReasonPurchaseNotFound  = "purchase_not_found"
	ReasonPurchaseCompleted = "purchase_completed"
	ReasonPromoNotFound     = "promo_not_found"
	ReasonPromoExpired      = "promo_expired"
	ReasonExamNotFound      = "exam_not_found"
	ReasonNoQuestions       = "no_questions"
	ReasonAlreadySubmitted  = "already_submitted"
	ReasonLimitExceeded     = "limit_exceeded"
	ReasonPromoCodeExists   = "promo_code_exists"
	ReasonCertificateExists = "certificate_exists"
	ReasonCertificateNone   = "certificate_not_found"
	ReasonUserNotFound      = "user_not_found"
	ReasonNotPurchased      = "not_purchased"
	ReasonExamLocked        = "exam_locked"
	ReasonForbidden         = "forbidden"
	ReasonStorage           = "storage_unavailable"
	ReasonRender            = "render_failed"
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Reason  string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Cause lets errors.Cause reach the underlying error.
func (e *Error) Cause() error { return e.Err }

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, reason, msg string) *Error {
	return &Error{Kind: kind, Reason: reason, Message: msg}
}

func Validation(reason, msg string) *Error { return newError(KindValidation, reason, msg) }

// ValidationFields reports per-field problems.
func ValidationFields(fields map[string]string) *Error {
	e := newError(KindValidation, ReasonInvalidInput, "Validation failed!")
	e.Fields = fields
	return e
}

func NotFound(reason, msg string) *Error { return newError(KindNotFound, reason, msg) }

func Conflict(reason, msg string) *Error { return newError(KindConflict, reason, msg) }

func Forbidden(reason, msg string) *Error { return newError(KindAuthorization, reason, msg) }

// Transient wraps a storage or network failure that is safe to retry.
func Transient(err error, msg string) *Error {
	e := newError(KindTransient, ReasonStorage, msg)
	e.Err = errors.WithStack(err)
	return e
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindUnknown for unclassified errors.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindUnknown
}

// ReasonOf returns the reason of err, or "" for unclassified errors.
func ReasonOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Reason
	}
	return ""
}

// Is reports whether err carries the given kind and reason.
func Is(err error, kind Kind, reason string) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind && appErr.Reason == reason
}
