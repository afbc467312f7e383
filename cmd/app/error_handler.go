package main

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jcarranz97/colony/internal/apperr"
)

// httpErrorHandler maps domain errors to their JSON response shape.
// Anything outside the apperr taxonomy is an internal failure and is
// never reinterpreted as a domain error.
func httpErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ae *apperr.Error
		if errors.As(err, &ae) {
			_ = c.JSON(ae.Status, echo.Map{"error": ae})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg, ok := he.Message.(string)
			if !ok {
				msg = http.StatusText(he.Code)
			}
			_ = c.JSON(he.Code, echo.Map{"error": echo.Map{"message": msg}})
			return
		}

		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		_ = c.JSON(http.StatusInternalServerError, echo.Map{
			"error": echo.Map{"message": "internal server error"},
		})
	}
}
