package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hmuraoka/seatwatch/internal/store"
)

// ChecksHandler serves check history endpoints.
type ChecksHandler struct {
	store store.Store
}

// NewChecksHandler creates a new ChecksHandler.
func NewChecksHandler(s store.Store) *ChecksHandler {
	return &ChecksHandler{store: s}
}

// Latest returns the most recent check result, or 404 if no check has
// run yet.
func (h *ChecksHandler) Latest(c echo.Context) error {
	check, err := h.store.LatestCheck(c.Request().Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "no checks recorded yet",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "fetching latest check failed",
		})
	}
	return c.JSON(http.StatusOK, check)
}
