// Package apperrors provides the enumerated error kinds carried end-to-end
// through the client, from the HTTP layers up to the views.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure independently of its text.
type Kind string

const (
	KindNetworkFailure        Kind = "NETWORK_FAILURE"
	KindRateLimited           Kind = "RATE_LIMITED"
	KindMalformedUpstreamData Kind = "MALFORMED_UPSTREAM_DATA"
	KindUnknownAsset          Kind = "UNKNOWN_ASSET"
	KindAuthRequired          Kind = "AUTH_REQUIRED"
	KindValidationFailure     Kind = "VALIDATION_FAILURE"
	KindInternal              Kind = "INTERNAL"
)

// Reason refines a ValidationFailure.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonInvalidAmount        Reason = "INVALID_AMOUNT"
	ReasonInvalidPrice         Reason = "INVALID_PRICE"
	ReasonInsufficientFunds    Reason = "INSUFFICIENT_FUNDS"
	ReasonInsufficientHoldings Reason = "INSUFFICIENT_HOLDINGS"
	ReasonNotOwned             Reason = "NOT_OWNED"
	ReasonInvalidCredentials   Reason = "INVALID_CREDENTIALS"
)

// Error is the structured error type used across packages.
type Error struct {
	Kind    Kind   `json:"code"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message"`
	// Status is the HTTP status reported by the remote side, 0 when not applicable.
	Status int   `json:"-"`
	Err    error `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind wrapping cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Validation creates a ValidationFailure with a reason.
func Validation(reason Reason, message string) *Error {
	return &Error{Kind: KindValidationFailure, Reason: reason, Message: message}
}

// WithStatus returns a copy of e carrying the given HTTP status.
func (e *Error) WithStatus(status int) *Error {
	cp := *e
	cp.Status = status
	return &cp
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ReasonOf returns the reason of the first *Error in err's chain.
func ReasonOf(err error) Reason {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	return ReasonNone
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// HTTPStatus maps a kind to the status used by the view-model server.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindAuthRequired:
		return http.StatusUnauthorized
	case KindValidationFailure:
		return http.StatusBadRequest
	case KindUnknownAsset:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindNetworkFailure, KindMalformedUpstreamData:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
