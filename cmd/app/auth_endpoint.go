package main

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jcarranz97/colony/internal/apperr"
	"github.com/jcarranz97/colony/internal/middleware"
	"github.com/jcarranz97/colony/internal/services"
)

type registerRequest struct {
	Email             string  `json:"email" validate:"required,email"`
	Password          string  `json:"password" validate:"required,min=8"`
	FirstName         *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName          *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	PreferredCurrency string  `json:"preferred_currency,omitempty" validate:"omitempty,oneof=USD MXN"`
	Locale            string  `json:"locale,omitempty" validate:"omitempty,max=10"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	FirstName         *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName          *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	PreferredCurrency *string `json:"preferred_currency,omitempty" validate:"omitempty,oneof=USD MXN"`
	Locale            *string `json:"locale,omitempty" validate:"omitempty,max=10"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func registerHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(registerRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("invalid request body")
		}
		if err := c.Validate(req); err != nil {
			return err
		}

		user, err := authSvc.Register(c.Request().Context(), services.RegisterInput{
			Email:             req.Email,
			Password:          req.Password,
			FirstName:         req.FirstName,
			LastName:          req.LastName,
			PreferredCurrency: req.PreferredCurrency,
			Locale:            req.Locale,
		})
		if err != nil {
			return err
		}

		return c.JSON(http.StatusCreated, user)
	}
}

func loginHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(loginRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("invalid request body")
		}
		if err := c.Validate(req); err != nil {
			return err
		}

		user, err := authSvc.Authenticate(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			if apperr.Is(err, apperr.CodeInvalidCredentials) {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
			}
			return err
		}

		token, err := authSvc.IssueSession(user)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, token)
	}
}

// meHandler returns the authenticated user's record.
func meHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, middleware.CurrentUser(c))
	}
}

func updateProfileHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(updateProfileRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("invalid request body")
		}
		if err := c.Validate(req); err != nil {
			return err
		}

		user, err := authSvc.UpdateProfile(c.Request().Context(), middleware.CurrentUser(c), services.UpdateProfileInput{
			FirstName:         req.FirstName,
			LastName:          req.LastName,
			PreferredCurrency: req.PreferredCurrency,
			Locale:            req.Locale,
		})
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, user)
	}
}

func changePasswordHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(changePasswordRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("invalid request body")
		}
		if err := c.Validate(req); err != nil {
			return err
		}

		_, err := authSvc.ChangePassword(c.Request().Context(), middleware.CurrentUser(c), req.CurrentPassword, req.NewPassword)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, echo.Map{"message": "password updated successfully"})
	}
}

func deactivateHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := authSvc.Deactivate(c.Request().Context(), middleware.CurrentUser(c)); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func registerAuthRoutes(g *echo.Group, authSvc *services.AuthService, authMW *middleware.AuthMiddleware) {
	auth := g.Group("/auth")

	// public
	auth.POST("/register", registerHandler(authSvc))
	auth.POST("/login", loginHandler(authSvc))

	// authenticated
	protected := auth.Group("")
	protected.Use(authMW.RequireUser())
	protected.GET("/me", meHandler())
	protected.PUT("/me", updateProfileHandler(authSvc))
	protected.PUT("/me/password", changePasswordHandler(authSvc))
	protected.DELETE("/me", deactivateHandler(authSvc))
}
