// Package api assembles the ops HTTP server: health probes, Prometheus
// metrics, and read-only check history endpoints.
package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hmuraoka/seatwatch/internal/api/handlers"
	"github.com/hmuraoka/seatwatch/internal/api/middleware"
	"github.com/hmuraoka/seatwatch/internal/store"
	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

// NewServer builds the Echo server with all routes and middleware.
func NewServer(s store.Store, rooms []domain.RoomCategory, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(s)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	checks := handlers.NewChecksHandler(s)
	roomsH := handlers.NewRoomsHandler(rooms)

	v1 := e.Group("/api/v1")
	v1.GET("/checks/latest", checks.Latest)
	v1.GET("/rooms", roomsH.List)

	return e
}
