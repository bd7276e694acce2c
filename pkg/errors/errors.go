// Package errors defines the failure taxonomy every layer speaks. A Code
// classifies the failure, Metadata decides how it renders over HTTP, and
// Error carries the internal message plus an optional cause chain.
// Services return these; the response writer translates them.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code names one failure class.
type Code string

const (
	// CodeValidation covers malformed or rejected input.
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeUnauthorized covers missing, expired, or revoked credentials.
	CodeUnauthorized Code = "UNAUTHORIZED"
	// CodeForbidden covers a valid actor lacking the role, or an inactive shop.
	CodeForbidden Code = "FORBIDDEN"
	// CodeNotFound covers lookups that miss, including cross-shop reads.
	CodeNotFound Code = "NOT_FOUND"
	// CodeConflict covers unique collisions such as a reused invoice number.
	CodeConflict Code = "CONFLICT"
	// CodeStateConflict covers operations a record's current state disallows,
	// such as selling an already-sold device.
	CodeStateConflict Code = "STATE_CONFLICT"
	// CodeIdempotency covers an idempotency key replayed with a different body.
	CodeIdempotency Code = "IDEMPOTENCY_KEY_REUSED"
	// CodeRateLimit covers throttled requests, retryable after the window.
	CodeRateLimit Code = "RATE_LIMIT_EXCEEDED"
	// CodeInternal covers bugs and unclassified failures.
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeDependency covers an unreachable backing service.
	CodeDependency Code = "DEPENDENCY_ERROR"
)

// Metadata is the per-code rendering policy. PublicMessage is the
// fallback shown when the error's own message must stay internal.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:    {HTTPStatus: http.StatusBadRequest, PublicMessage: "invalid request", DetailsAllowed: true},
	CodeUnauthorized:  {HTTPStatus: http.StatusUnauthorized, PublicMessage: "authentication required"},
	CodeForbidden:     {HTTPStatus: http.StatusForbidden, PublicMessage: "permission denied"},
	CodeNotFound:      {HTTPStatus: http.StatusNotFound, PublicMessage: "resource not found"},
	CodeConflict:      {HTTPStatus: http.StatusConflict, PublicMessage: "duplicate resource"},
	CodeStateConflict: {HTTPStatus: http.StatusUnprocessableEntity, PublicMessage: "operation not allowed in current state", DetailsAllowed: true},
	CodeIdempotency:   {HTTPStatus: http.StatusConflict, PublicMessage: "idempotency key already used", DetailsAllowed: true},
	CodeRateLimit:     {HTTPStatus: http.StatusTooManyRequests, Retryable: true, PublicMessage: "too many requests"},
	CodeInternal:      {HTTPStatus: http.StatusInternalServerError, Retryable: true, PublicMessage: "internal server error"},
	CodeDependency:    {HTTPStatus: http.StatusServiceUnavailable, Retryable: true, PublicMessage: "service temporarily unavailable", DetailsAllowed: true},
}

// MetadataFor resolves a code's rendering policy. Unknown codes render
// as internal errors rather than leaking anything.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is the typed error services return. The message is internal;
// what reaches the client is decided by the code's metadata.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

// New builds a typed error with no cause.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails attaches structured context, surfaced only for codes
// whose metadata allows it.
func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As digs the typed error out of a chain, or returns nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
