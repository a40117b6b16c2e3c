// Package httputil maps vault errors to HTTP responses for the gin handlers.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apperrors "github.com/saferoute/vault/internal/errors"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HandleErrorGin writes the response for err and logs it.
//
//   - ErrNotFound: 404, logged at debug since unknown and expired ids are routine.
//   - ErrInvalidInput: 400 with the error text, logged at warn.
//   - anything else: 500 with a generic message, logged at error with the full chain.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var (
		statusCode int
		response   ErrorResponse
		level      slog.Level
	)

	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		level = slog.LevelDebug
		response = ErrorResponse{
			Error:   "not_found",
			Message: "The requested record was not found or has expired",
		}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		level = slog.LevelWarn
		response = ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		}

	default:
		statusCode = http.StatusInternalServerError
		level = slog.LevelError
		response = ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		}
	}

	if logger != nil {
		logger.LogAttrs(c.Request.Context(), level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", response.Error),
			slog.String("request_id", requestid.Get(c)),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, response)
}

// HandleBadRequestGin writes a 400 response for a body that could not be parsed.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request",
			slog.String("request_id", requestid.Get(c)),
			slog.Any("error", err),
		)
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 400 response for a well-formed body that failed validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed",
			slog.String("request_id", requestid.Get(c)),
			slog.Any("error", err),
		)
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
