package api

import (
	"log/slog"
	"net/http"
	"transit-reachability-service/internal/api/handlers"

	"github.com/julienschmidt/httprouter"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(
	logger *slog.Logger,
	results *handlers.ResultStore,
	runs *handlers.RunHandler,
	circleRadius int,
) http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(handlers.NotFound)
	router.MethodNotAllowed = http.HandlerFunc(handlers.MethodNotAllowed)

	layers := &handlers.LayerHandler{Results: results, CircleRadius: circleRadius}

	router.HandlerFunc(http.MethodGet, "/health", handlers.Health)
	router.HandlerFunc(http.MethodGet, "/destinations", layers.Destinations)
	router.HandlerFunc(http.MethodGet, "/stops", layers.Stops)
	router.HandlerFunc(http.MethodGet, "/districts", layers.Districts)
	router.HandlerFunc(http.MethodGet, "/districts/:name", layers.District)
	router.HandlerFunc(http.MethodPost, "/runs", runs.Create)

	return requestContextMiddleware(logger, loggingMiddleware(router))
}
