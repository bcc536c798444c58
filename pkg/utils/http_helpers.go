package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	apperrors "hvac-service/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

var exposeInternalErrors atomic.Bool

// SetExposeInternalErrors controls whether unexpected errors are returned to
// the client verbatim. It is switched on outside production.
func SetExposeInternalErrors(v bool) {
	exposeInternalErrors.Store(v)
}

var sentinelStatuses = []struct {
	err  error
	code int
}{
	{apperrors.ErrNotFound, http.StatusNotFound},
	{apperrors.ErrApprovalNotFound, http.StatusNotFound},
	{apperrors.ErrEmptyAuthHeader, http.StatusUnauthorized},
	{apperrors.ErrInvalidAuthHeader, http.StatusUnauthorized},
	{apperrors.ErrInvalidToken, http.StatusUnauthorized},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized},
	{apperrors.ErrInvalidSigningMethod, http.StatusUnauthorized},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized},
	{apperrors.ErrUserIDNotFoundInContext, http.StatusUnauthorized},
	{apperrors.ErrForbidden, http.StatusForbidden},
	{apperrors.ErrUserInactive, http.StatusForbidden},
	{apperrors.ErrConflict, http.StatusConflict},
	{apperrors.ErrApprovalAlreadyProcessed, http.StatusConflict},
	{apperrors.ErrFeedbackExists, http.StatusConflict},
	{apperrors.ErrInvalidStatusTransition, http.StatusConflict},
	{apperrors.ErrJobItemsIncomplete, http.StatusConflict},
	{apperrors.ErrTooManyRequests, http.StatusTooManyRequests},
	{apperrors.ErrInvalidSignature, http.StatusBadRequest},
	{apperrors.ErrBadRequest, http.StatusBadRequest},
}

// StatusCodeFor resolves the HTTP status for a service error.
func StatusCodeFor(err error) int {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	var inputErr *apperrors.InvalidInputError
	if errors.As(err, &inputErr) {
		return http.StatusBadRequest
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return http.StatusBadRequest
	}
	for _, s := range sentinelStatuses {
		if errors.Is(err, s.err) {
			return s.code
		}
	}
	return http.StatusInternalServerError
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message}
	if len(total) > 0 {
		filter := ParseFilterFromQuery(ctx.Request().URL.Query())
		if filter.WithPagination {
			response.Body = map[string]interface{}{
				"list":       body,
				"pagination": filter.PaginationFor(total[0]),
			}
			return ctx.JSON(code, response)
		}
	}
	response.Body = body
	return ctx.JSON(code, response)
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Warn("HTTP error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}
		response := &HTTPResponse{Status: false, Message: httpErr.Message, Body: httpErr.Details}
		return c.JSON(httpErr.Code, response)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		var msgs []string
		for _, e := range validationErrors {
			fields[e.Field()] = e.Tag()
			msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, &HTTPResponse{
			Status:  false,
			Message: "validation failed: " + strings.Join(msgs, "; "),
			Body:    fields,
		})
	}

	var inputErr *apperrors.InvalidInputError
	if errors.As(err, &inputErr) {
		return c.JSON(http.StatusBadRequest, &HTTPResponse{Status: false, Message: inputErr.Message})
	}

	if code := StatusCodeFor(err); code != http.StatusInternalServerError {
		return c.JSON(code, &HTTPResponse{Status: false, Message: sentinelMessage(err)})
	}

	logger.Error("unexpected error",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	message := "internal server error"
	if exposeInternalErrors.Load() {
		message = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, &HTTPResponse{Status: false, Message: message})
}

// sentinelMessage returns the message of the first known sentinel in the chain,
// so wrapping context added by services does not leak to clients.
func sentinelMessage(err error) string {
	for _, s := range sentinelStatuses {
		if errors.Is(err, s.err) {
			return s.err.Error()
		}
	}
	return err.Error()
}
