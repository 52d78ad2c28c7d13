package handlers

import (
	"cvrp-route-service/internal/api/dto"
	"cvrp-route-service/internal/ports"
	"cvrp-route-service/internal/routing"
	"cvrp-route-service/internal/services"
	"net/http"
	"strconv"
	"strings"
)

// RouteHandler exposes route computation, comparison, and stored results.
type RouteHandler struct {
	Planner  *services.Planner
	Registry *routing.Registry
	Results  ports.ResultRepository
}

func (h *RouteHandler) Algorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AlgorithmsResponse{Algorithms: h.Registry.Names()})
}

// Routes handles POST (compute a route) and GET (list stored routes).
func (h *RouteHandler) Routes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.plan(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *RouteHandler) plan(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	algorithm := strings.TrimSpace(req.Algorithm)
	if algorithm == "" {
		writeError(w, r, http.StatusBadRequest, "algorithm is required")
		return
	}

	svcReq, ok := planRequest(w, r, req.Depot, req.Stops, req.StopLimit)
	if !ok {
		return
	}
	svcReq.Algorithm = algorithm
	svcReq.Capacity = req.Capacity
	svcReq.Seed = req.Seed
	svcReq.Prefetch = req.Prefetch

	result, err := h.Planner.PlanRoute(r.Context(), svcReq)
	if err != nil {
		writeDomainError(w, r, "plan route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromResult(result, true))
}

func (h *RouteHandler) Compare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.CompareRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svcReq, ok := planRequest(w, r, req.Depot, req.Stops, req.StopLimit)
	if !ok {
		return
	}
	svcReq.Capacity = req.Capacity
	svcReq.Seed = req.Seed
	svcReq.Prefetch = req.Prefetch

	results, err := h.Planner.CompareAlgorithms(r.Context(), svcReq, req.Algorithms)
	if err != nil {
		writeDomainError(w, r, "compare algorithms", err)
		return
	}

	res := dto.CompareResponse{Results: make([]dto.ComparisonResponse, 0, len(results))}
	for _, c := range results {
		item := dto.ComparisonResponse{Algorithm: c.Algorithm}
		if c.Err != nil {
			item.Error = c.Err.Error()
		} else {
			route := dto.FromResult(*c.Result, false)
			item.Route = &route
		}
		res.Results = append(res.Results, item)
	}
	if best, ok := services.Best(results); ok {
		res.Best = best.Algorithm
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *RouteHandler) list(w http.ResponseWriter, r *http.Request) {
	if h.Results == nil {
		writeError(w, r, http.StatusNotFound, "route storage is not configured")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	results, err := h.Results.ListResults(r.Context(), limit)
	if err != nil {
		writeDomainError(w, r, "list routes", err)
		return
	}

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteResponse, 0, len(results))}
	for _, result := range results {
		res.Routes = append(res.Routes, dto.FromResult(result, false))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Get serves GET /routes/{id}.
func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.Results == nil {
		writeError(w, r, http.StatusNotFound, "route storage is not configured")
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	result, err := h.Results.GetResult(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "get route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromResult(result, true))
}

// planRequest converts the shared stop fields of a request body.
func planRequest(
	w http.ResponseWriter,
	r *http.Request,
	depot *dto.StopRequest,
	stops []dto.StopRequest,
	stopLimit int,
) (services.PlanRequest, bool) {
	if stopLimit < 0 {
		writeError(w, r, http.StatusBadRequest, "stop_limit must not be negative")
		return services.PlanRequest{}, false
	}

	if depot == nil {
		if len(stops) > 0 {
			writeError(w, r, http.StatusBadRequest, "depot is required when stops are given")
			return services.PlanRequest{}, false
		}
		return services.PlanRequest{StopLimit: stopLimit}, true
	}

	d := depot.ToDomain()
	return services.PlanRequest{
		Depot: &d,
		Stops: dto.StopsToDomain(stops),
	}, true
}
