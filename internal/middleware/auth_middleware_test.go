package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcarranz97/colony/internal/apperr"
	"github.com/jcarranz97/colony/internal/model"
	"github.com/jcarranz97/colony/internal/security"
)

type fakeUserFinder struct {
	users map[string]*model.User
}

func (f *fakeUserFinder) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.users[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func newTestGate(t *testing.T) (*AuthMiddleware, *security.TokenCodec, *fakeUserFinder) {
	t.Helper()
	codec, err := security.NewTokenCodec("test-secret-key-for-unit-tests", "HS256")
	require.NoError(t, err)

	finder := &fakeUserFinder{users: map[string]*model.User{
		"a@x.com": {ID: uuid.New(), Email: "a@x.com", Active: true},
		"off@x.com": {
			ID:    uuid.New(),
			Email: "off@x.com",
		},
	}}
	return NewAuthMiddleware(codec, finder), codec, finder
}

// invoke runs the gate around a handler that records whether it ran and
// which user was resolved.
func invoke(t *testing.T, m *AuthMiddleware, authHeader string) (echo.Context, bool, *model.User, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handlerRan := false
	var seenUser *model.User
	next := func(c echo.Context) error {
		handlerRan = true
		seenUser = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	}

	err := m.RequireUser()(next)(c)
	return c, handlerRan, seenUser, err
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	m, _, _ := newTestGate(t)

	c, ran, _, err := invoke(t, m, "")
	require.Error(t, err)
	assert.False(t, ran)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidToken))

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, "Bearer", c.Response().Header().Get(echo.HeaderWWWAuthenticate))
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	m, codec, _ := newTestGate(t)

	token, err := codec.Issue("a@x.com", time.Hour)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"no scheme":    token,
		"wrong scheme": "Basic " + token,
		"extra parts":  "Bearer " + token + " extra",
	} {
		t.Run(name, func(t *testing.T) {
			_, ran, _, err := invoke(t, m, header)
			require.Error(t, err)
			assert.False(t, ran)
			assert.True(t, apperr.Is(err, apperr.CodeInvalidToken))
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	m, codec, _ := newTestGate(t)

	token, err := codec.Issue("a@x.com", -time.Minute)
	require.NoError(t, err)

	c, ran, _, gateErr := invoke(t, m, "Bearer "+token)
	require.Error(t, gateErr)
	assert.False(t, ran)
	assert.True(t, apperr.Is(gateErr, apperr.CodeTokenExpired))
	assert.Equal(t, "Bearer", c.Response().Header().Get(echo.HeaderWWWAuthenticate))
}

func TestAuthMiddleware_UnknownSubject(t *testing.T) {
	m, codec, _ := newTestGate(t)

	token, err := codec.Issue("ghost@x.com", time.Hour)
	require.NoError(t, err)

	_, ran, _, gateErr := invoke(t, m, "Bearer "+token)
	require.Error(t, gateErr)
	assert.False(t, ran)
	// indistinguishable from a bad token
	assert.True(t, apperr.Is(gateErr, apperr.CodeInvalidToken))
}

func TestAuthMiddleware_InactiveUser(t *testing.T) {
	m, codec, _ := newTestGate(t)

	token, err := codec.Issue("off@x.com", time.Hour)
	require.NoError(t, err)

	_, ran, _, gateErr := invoke(t, m, "Bearer "+token)
	require.Error(t, gateErr)
	assert.False(t, ran)
	assert.True(t, apperr.Is(gateErr, apperr.CodeInactiveUser))

	var ae *apperr.Error
	require.ErrorAs(t, gateErr, &ae)
	assert.Equal(t, http.StatusForbidden, ae.Status)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	m, codec, finder := newTestGate(t)

	token, err := codec.Issue("a@x.com", time.Hour)
	require.NoError(t, err)

	_, ran, seenUser, gateErr := invoke(t, m, "Bearer "+token)
	require.NoError(t, gateErr)
	assert.True(t, ran)
	require.NotNil(t, seenUser)
	assert.Equal(t, finder.users["a@x.com"].ID, seenUser.ID)
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	m, codec, _ := newTestGate(t)

	token, err := codec.Issue("a@x.com", time.Hour)
	require.NoError(t, err)

	_, ran, _, gateErr := invoke(t, m, "bearer "+token)
	require.NoError(t, gateErr)
	assert.True(t, ran)
}

func TestCurrentUser_OutsideGate(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))
}
