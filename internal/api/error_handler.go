package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookreview/catalog-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool        `json:"success"`
	Error   errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const serverErrorMessage = "Something went wrong while processing the request"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to the status of their kind.
//   - Translates Echo's own errors into stable codes.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, detail := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, errorResponse{Success: false, Error: detail})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorDetail) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return statusFor(derr.Kind), errorDetail{Code: derr.Code, Message: derr.Message}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusBadRequest, http.StatusUnsupportedMediaType:
			return http.StatusBadRequest, errorDetail{Code: domain.ErrInvalidPayload.Code, Message: domain.ErrInvalidPayload.Message}
		case http.StatusNotFound:
			return http.StatusNotFound, errorDetail{Code: "ROUTE_NOT_FOUND", Message: "Route not found"}
		case http.StatusMethodNotAllowed:
			return http.StatusMethodNotAllowed, errorDetail{Code: "METHOD_NOT_ALLOWED", Message: "Method not allowed"}
		case http.StatusRequestEntityTooLarge:
			return http.StatusRequestEntityTooLarge, errorDetail{Code: "PAYLOAD_TOO_LARGE", Message: "Request body is too large"}
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorDetail{Code: domain.CodeServerError, Message: serverErrorMessage}
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
