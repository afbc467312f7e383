package main

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jcarranz97/colony/internal/apperr"
)

// requestValidator plugs go-playground/validator into echo's Bind/Validate
// flow. Failures surface as VALIDATION_ERROR with per-field details.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

func (v *requestValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	ae := apperr.Validation("request validation failed")
	for _, fe := range verrs {
		ae.WithDetail(strings.ToLower(fe.Field()), fmt.Sprintf("failed on %q", fe.Tag()))
	}
	return ae
}
