package report

import (
	"context"
	"errors"
	"strings"

	errorslib "github.com/goliatone/go-errors"
)

// MsgPDFGenerationFailed is the client facing message of conversion failures.
const MsgPDFGenerationFailed = "PDF generation failed"

// ErrorKind defines report error kinds.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConversion ErrorKind = "conversion"
	KindRender     ErrorKind = "render"
	KindTimeout    ErrorKind = "timeout"
	KindCanceled   ErrorKind = "canceled"
	KindInternal   ErrorKind = "internal"
	KindNotImpl    ErrorKind = "not_implemented"
)

// FieldError describes a rejected form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error wraps errors with a kind.
type Error struct {
	Kind   ErrorKind
	Msg    string
	Err    error
	Fields []FieldError
}

func (e *Error) Error() string {
	msg := e.Msg
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for _, field := range e.Fields {
			names = append(names, field.Field)
		}
		msg += " (" + strings.Join(names, ", ") + ")"
	}
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new report error.
func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// NewValidationError reports one or more rejected form fields.
func NewValidationError(msg string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Fields: fields}
}

// FieldErrors returns the field level details carried by err, if any.
func FieldErrors(err error) []FieldError {
	var reportErr *Error
	if errors.As(err, &reportErr) {
		return reportErr.Fields
	}
	return nil
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindFromError(err)
	msg := err.Error()

	var reportErr *Error
	if errors.As(err, &reportErr) && reportErr.Msg != "" {
		msg = reportErr.Msg
	}

	switch kind {
	case KindValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("validation")
	case KindNotFound:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("not_found")
	case KindConversion:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("conversion")
	case KindRender:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("render")
	case KindTimeout:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("timeout")
	case KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	case KindNotImpl:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("not_implemented")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}

// KindFromError maps an error to its report error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var reportErr *Error
	if errors.As(err, &reportErr) {
		return reportErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	return KindInternal
}
