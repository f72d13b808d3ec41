package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todovault/todovault/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorResponse{Error: msg})
}

// respondError maps the shared sentinel errors to HTTP statuses. Responses
// carry only the stable error kind, never internal diagnostics.
func (s *HTTPServer) respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return writeError(c, http.StatusBadRequest, "validation error")
	case errors.Is(err, common.ErrorUnauthorized):
		return writeError(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, common.ErrorAlreadyExists):
		return writeError(c, http.StatusConflict, "already exists")
	case errors.Is(err, common.ErrorNotFound):
		return writeError(c, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrInvalidPath):
		// deliberately the same body as a missing file
		return writeError(c, http.StatusNotFound, "file not found")
	case errors.Is(err, common.ErrUpstream):
		return writeError(c, http.StatusBadGateway, "upstream failure")
	default:
		s.logger.Error(c.Request().Context(), "request failed", "error", err)
		return writeError(c, http.StatusInternalServerError, "internal error")
	}
}
