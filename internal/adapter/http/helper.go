package http

import (
	"errors"
	stdhttp "net/http"

	"loanflow-backend/internal/domain/loan"

	"github.com/labstack/echo/v4"
)

// writeError is the single place usecase errors turn into status
// codes. Handlers never branch on error kinds themselves.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, loan.ErrNotFound):
		return c.JSON(stdhttp.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, loan.ErrInvalidInput),
		errors.Is(err, loan.ErrInvalidTransition),
		errors.Is(err, loan.ErrNotPending):
		return c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(stdhttp.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
