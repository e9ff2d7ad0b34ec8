package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/repository"
	"carpool/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

const internalErrorMessage = "internal server error"

// respondError sends an error response with the appropriate HTTP status code.
// Internal errors are logged and replaced by a generic message.
func respondError(c *gin.Context, err error) {
	respondErrorWithStatus(c, mapErrorToHTTPStatus(err), err)
}

func respondErrorWithStatus(c *gin.Context, code int, err error) {
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(code, ErrorResponse{Error: internalErrorMessage})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	case service.IsInvalidInput(err):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrPhoneTaken),
		errors.Is(err, service.ErrRegistrationInProgress),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
