package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for the boundary layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindRateLimited
	KindConflict
	KindNotFound
	KindUpstream
)

// DomainError is a business-rule violation returned to the boundary as a typed result.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func newDomainError(kind Kind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

// Generic errors
var (
	ErrNotFound       = newDomainError(KindNotFound, CodeNotFound, "resource not found")
	ErrAlreadyExists  = newDomainError(KindConflict, CodeConflict, "resource already exists")
	ErrInvalidInput   = newDomainError(KindValidation, CodeBadRequest, "invalid input")
	ErrBadRequest     = ErrInvalidInput
	ErrUnauthorized   = newDomainError(KindUnauthorized, CodeUnauthorized, "unauthorized")
	ErrForbidden      = newDomainError(KindForbidden, CodeForbidden, "forbidden")
	ErrStateConflict  = newDomainError(KindConflict, CodeConflict, "concurrent modification conflict")
	ErrTokenExpired   = newDomainError(KindUnauthorized, CodeUnauthorized, "token expired")
	ErrInternal       = newDomainError(KindInternal, CodeInternal, "internal server error")
	ErrNotImplemented = newDomainError(KindInternal, CodeInternal, "not implemented")
)

// Identity and verification code errors
var (
	ErrInvalidPhone        = newDomainError(KindValidation, CodeInvalidPhone, "invalid phone number")
	ErrInvalidPassword     = newDomainError(KindValidation, CodeInvalidPassword, "password must be at least 6 characters")
	ErrInvalidCredentials  = newDomainError(KindUnauthorized, CodeInvalidCredentials, "invalid phone or password")
	ErrCodeInvalid         = newDomainError(KindValidation, CodeInvalidCode, "verification code is invalid or expired")
	ErrRateLimited         = newDomainError(KindRateLimited, CodeRateLimited, "too many requests, please retry later")
	ErrAlreadyRegistered   = newDomainError(KindConflict, CodeAlreadyRegistered, "phone number already registered")
	ErrUserNotFound        = newDomainError(KindNotFound, CodeUserNotFound, "user not found")
	ErrAccountDisabled     = newDomainError(KindForbidden, CodeAccountDisabled, "account is frozen or closed")
	ErrUpstreamUnavailable = newDomainError(KindUpstream, CodeUpstreamUnavailable, "sms delivery failed, please resend")
)

// Address ledger errors
var (
	ErrInvalidAddress     = newDomainError(KindValidation, CodeInvalidAddress, "address must be between 1 and 255 characters")
	ErrTooManyAddresses   = newDomainError(KindValidation, CodeTooManyAddresses, "address book is full")
	ErrNoDefaultAddress   = newDomainError(KindValidation, CodeNoDefaultAddress, "no default address, choose one explicitly")
	ErrDefaultAddressRace = newDomainError(KindConflict, CodeConflict, "default address changed concurrently")
)

// Order lifecycle errors
var (
	ErrInvalidState         = newDomainError(KindConflict, CodeInvalidState, "operation not allowed in current order state")
	ErrInvalidAmount        = newDomainError(KindValidation, CodeInvalidAmount, "amount must be greater than zero")
	ErrInvalidPaymentMethod = newDomainError(KindValidation, CodeInvalidPaymentMethod, "unsupported payment method")
	ErrForeignAddress       = newDomainError(KindValidation, CodeForeignAddress, "address does not belong to customer")
	ErrProviderMismatch     = newDomainError(KindValidation, CodeProviderMismatch, "service is not offered by this provider")
	ErrInvalidAfterSales    = newDomainError(KindValidation, CodeBadRequest, "invalid after-sales type or resolution")
	ErrInvalidReview        = newDomainError(KindValidation, CodeBadRequest, "review content is required")
	ErrUserHasOrders        = newDomainError(KindConflict, CodeConflict, "user still referenced by orders")
)

// KindOf returns the taxonomy kind of err, KindInternal when unclassified.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeBadRequest, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, "internal server error", err)
}

// FromError converts any error into an AppError. Domain errors keep their message;
// everything else collapses into a generic 500.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var de *DomainError
	if !errors.As(err, &de) {
		return InternalError(err)
	}
	if de.Kind == KindInternal {
		return InternalError(err)
	}
	return NewAppError(StatusFor(de.Kind), de.Code, de.Message, err)
}

// StatusFor maps a taxonomy kind to its HTTP status code.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
