package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	err := InvalidCredentials()
	assert.True(t, Is(err, CodeInvalidCredentials))
	assert.False(t, Is(err, CodeInvalidToken))
	assert.False(t, Is(nil, CodeInvalidCredentials))
	assert.False(t, Is(errors.New("plain"), CodeInvalidCredentials))
}

func TestError_IsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("gate: %w", TokenExpired())
	assert.True(t, Is(wrapped, CodeTokenExpired))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("constraint violated")
	err := UserAlreadyExists("a@x.com").WithCause(cause)
	assert.ErrorIs(t, err, cause)
}

func TestError_Details(t *testing.T) {
	err := PaymentMethodNameExists("Visa")
	assert.Equal(t, "Visa", err.Details["name"])

	err.WithDetail("user_id", "abc")
	assert.Equal(t, "abc", err.Details["user_id"])
}

func TestError_Statuses(t *testing.T) {
	for _, tc := range []struct {
		err    *Error
		status int
	}{
		{InvalidToken(), http.StatusUnauthorized},
		{TokenExpired(), http.StatusUnauthorized},
		{InvalidCredentials(), http.StatusUnauthorized},
		{IncorrectPassword(), http.StatusBadRequest},
		{UserAlreadyExists("a@x.com"), http.StatusConflict},
		{UserNotFound(), http.StatusNotFound},
		{InactiveUser(), http.StatusForbidden},
		{PaymentMethodNotFound("id"), http.StatusNotFound},
		{PaymentMethodNameExists("Visa"), http.StatusConflict},
		{PaymentMethodLimit(20), http.StatusConflict},
		{Validation("bad"), http.StatusBadRequest},
	} {
		assert.Equal(t, tc.status, tc.err.Status, string(tc.err.Code))
	}
}
