package controllers

import (
	"net/http"

	apperrors "hvac-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

// bindAndValidate decodes the request into payload and runs struct validation.
func bindAndValidate(ctx echo.Context, payload interface{}) error {
	if err := ctx.Bind(payload); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil)
	}
	return ctx.Validate(payload)
}
