package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

// RoomsHandler serves the configured room catalog.
type RoomsHandler struct {
	rooms []domain.RoomCategory
}

// NewRoomsHandler creates a new RoomsHandler.
func NewRoomsHandler(rooms []domain.RoomCategory) *RoomsHandler {
	return &RoomsHandler{rooms: rooms}
}

// List returns the room categories the watcher resolves.
func (h *RoomsHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"rooms": h.rooms,
	})
}
