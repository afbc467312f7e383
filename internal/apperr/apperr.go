// Package apperr defines the application error taxonomy. Every domain
// failure is an *Error carrying a stable machine-readable code and the
// HTTP status it maps to at the boundary. Anything that is not an *Error
// is treated as an internal failure.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable machine-readable error code.
type Code string

const (
	CodeInvalidToken            Code = "INVALID_TOKEN"
	CodeTokenExpired            Code = "TOKEN_EXPIRED"
	CodeInvalidCredentials      Code = "INVALID_CREDENTIALS"
	CodeIncorrectPassword       Code = "INCORRECT_PASSWORD"
	CodeUserAlreadyExists       Code = "USER_ALREADY_EXISTS"
	CodeUserNotFound            Code = "USER_NOT_FOUND"
	CodeInactiveUser            Code = "INACTIVE_USER"
	CodePaymentMethodNotFound   Code = "PAYMENT_METHOD_NOT_FOUND"
	CodePaymentMethodNameExists Code = "PAYMENT_METHOD_NAME_EXISTS"
	CodePaymentMethodLimit      Code = "PAYMENT_METHOD_LIMIT"
	CodeValidation              Code = "VALIDATION_ERROR"
)

// Error is the application error value.
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"-"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// WithDetail attaches a detail entry and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause records the underlying error and returns the receiver.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// Is reports whether err is an *Error with the given code.
func Is(err error, code Code) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}

func InvalidToken() *Error {
	return &Error{
		Code:    CodeInvalidToken,
		Message: "could not validate credentials",
		Status:  http.StatusUnauthorized,
	}
}

func TokenExpired() *Error {
	return &Error{
		Code:    CodeTokenExpired,
		Message: "token has expired",
		Status:  http.StatusUnauthorized,
	}
}

func InvalidCredentials() *Error {
	return &Error{
		Code:    CodeInvalidCredentials,
		Message: "incorrect email or password",
		Status:  http.StatusUnauthorized,
	}
}

func IncorrectPassword() *Error {
	return &Error{
		Code:    CodeIncorrectPassword,
		Message: "current password is incorrect",
		Status:  http.StatusBadRequest,
	}
}

func UserAlreadyExists(email string) *Error {
	e := &Error{
		Code:    CodeUserAlreadyExists,
		Message: "user with this email already exists",
		Status:  http.StatusConflict,
	}
	return e.WithDetail("email", email)
}

func UserNotFound() *Error {
	return &Error{
		Code:    CodeUserNotFound,
		Message: "user not found",
		Status:  http.StatusNotFound,
	}
}

func InactiveUser() *Error {
	return &Error{
		Code:    CodeInactiveUser,
		Message: "user account is inactive",
		Status:  http.StatusForbidden,
	}
}

func PaymentMethodNotFound(id string) *Error {
	e := &Error{
		Code:    CodePaymentMethodNotFound,
		Message: "payment method not found",
		Status:  http.StatusNotFound,
	}
	return e.WithDetail("payment_method_id", id)
}

func PaymentMethodNameExists(name string) *Error {
	e := &Error{
		Code:    CodePaymentMethodNameExists,
		Message: fmt.Sprintf("payment method with name %q already exists", name),
		Status:  http.StatusConflict,
	}
	return e.WithDetail("name", name)
}

func PaymentMethodLimit(limit int) *Error {
	e := &Error{
		Code:    CodePaymentMethodLimit,
		Message: fmt.Sprintf("maximum %d payment methods allowed", limit),
		Status:  http.StatusConflict,
	}
	return e.WithDetail("limit", limit)
}

func Validation(message string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}
