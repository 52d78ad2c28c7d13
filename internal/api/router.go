package api

import (
	"cvrp-route-service/internal/api/handlers"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"cvrp-route-service/internal/routing"
	"cvrp-route-service/internal/services"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// results may be nil when route storage is disabled.
func NewRouter(planner *services.Planner, registry *routing.Registry, results ports.ResultRepository) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{
		Planner:  planner,
		Registry: registry,
		Results:  results,
	}

	mux.HandleFunc("/health", routeHandler.Health)
	mux.HandleFunc("/algorithms", routeHandler.Algorithms)
	mux.HandleFunc("/routes", routeHandler.Routes)
	mux.HandleFunc("/routes/{id}", routeHandler.Get)
	mux.HandleFunc("/routes/compare", routeHandler.Compare)
	mux.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(mux))
}
