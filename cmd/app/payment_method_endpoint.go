package main

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jcarranz97/colony/internal/apperr"
	"github.com/jcarranz97/colony/internal/middleware"
	"github.com/jcarranz97/colony/internal/repository"
	"github.com/jcarranz97/colony/internal/services"
)

type createPaymentMethodRequest struct {
	Name            string  `json:"name" validate:"required,min=1,max=100"`
	MethodType      string  `json:"method_type" validate:"required,oneof=debit credit cash transfer"`
	DefaultCurrency string  `json:"default_currency" validate:"required,oneof=USD MXN"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

type updatePaymentMethodRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Active      *bool   `json:"active,omitempty"`
}

func registerPaymentMethodRoutes(api *echo.Group, svc *services.PaymentMethodService, authMW *middleware.AuthMiddleware) {
	g := api.Group("/payment-methods")
	g.Use(authMW.RequireUser())

	// LIST with optional active/currency filters
	g.GET("", func(c echo.Context) error {
		user := middleware.CurrentUser(c)

		var f repository.PaymentMethodFilter
		if v := c.QueryParam("active"); v != "" {
			active := v == "true"
			f.Active = &active
		}
		if v := c.QueryParam("currency"); v != "" {
			f.Currency = &v
		}

		list, err := svc.List(c.Request().Context(), user.ID, f)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, list)
	})

	// CREATE
	g.POST("", func(c echo.Context) error {
		user := middleware.CurrentUser(c)

		req := new(createPaymentMethodRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("invalid request body")
		}
		if err := c.Validate(req); err != nil {
			return err
		}

		pm, err := svc.Create(c.Request().Context(), user.ID, services.CreatePaymentMethodInput{
			Name:            req.Name,
			MethodType:      req.MethodType,
			DefaultCurrency: req.DefaultCurrency,
			Description:     req.Description,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, pm)
	})

	// GET one
	g.GET("/:id", func(c echo.Context) error {
		user := middleware.CurrentUser(c)
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return apperr.PaymentMethodNotFound(c.Param("id"))
		}

		pm, err := svc.Get(c.Request().Context(), user.ID, id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, pm)
	})

	// UPDATE
	g.PUT("/:id", func(c echo.Context) error {
		user := middleware.CurrentUser(c)
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return apperr.PaymentMethodNotFound(c.Param("id"))
		}

		req := new(updatePaymentMethodRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("invalid request body")
		}
		if err := c.Validate(req); err != nil {
			return err
		}

		pm, err := svc.Update(c.Request().Context(), user.ID, id, services.UpdatePaymentMethodInput{
			Name:        req.Name,
			Description: req.Description,
			Active:      req.Active,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, pm)
	})

	// DELETE (soft)
	g.DELETE("/:id", func(c echo.Context) error {
		user := middleware.CurrentUser(c)
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return apperr.PaymentMethodNotFound(c.Param("id"))
		}

		if err := svc.Deactivate(c.Request().Context(), user.ID, id); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
}
