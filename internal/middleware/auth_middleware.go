package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jcarranz97/colony/internal/apperr"
	"github.com/jcarranz97/colony/internal/model"
	"github.com/jcarranz97/colony/internal/security"
)

const userContextKey = "auth_user"

// UserFinder is the directory lookup the auth gate needs to resolve a
// token subject into a user record.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthMiddleware gates protected endpoints. It validates the bearer
// token, resolves the subject against the user directory and rejects
// inactive accounts before any handler logic runs.
type AuthMiddleware struct {
	Codec *security.TokenCodec
	Users UserFinder
}

func NewAuthMiddleware(codec *security.TokenCodec, users UserFinder) *AuthMiddleware {
	return &AuthMiddleware{Codec: codec, Users: users}
}

// RequireUser returns an Echo middleware that authenticates the request
// and stores the user on the context. Token failures and unknown
// subjects answer 401 with a bearer challenge; a known but deactivated
// account answers 403.
func (m *AuthMiddleware) RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return m.challenge(c, apperr.InvalidToken())
			}

			email, err := m.Codec.ExtractSubject(token)
			if err != nil {
				return m.challenge(c, err)
			}

			user, err := m.Users.FindByEmail(c.Request().Context(), email)
			if err != nil {
				return err
			}
			if user == nil {
				// same response as a bad token, the subject's existence
				// is not leaked
				return m.challenge(c, apperr.InvalidToken())
			}
			if !user.Active {
				return apperr.InactiveUser()
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// challenge attaches the bearer scheme header expected on 401 responses.
func (m *AuthMiddleware) challenge(c echo.Context, err error) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return err
}

func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if auth == "" {
		return "", false
	}
	parts := strings.Fields(auth)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// CurrentUser returns the authenticated user set by RequireUser, or nil
// outside a gated handler.
func CurrentUser(c echo.Context) *model.User {
	v := c.Get(userContextKey)
	if v == nil {
		return nil
	}
	if u, ok := v.(*model.User); ok {
		return u
	}
	return nil
}
