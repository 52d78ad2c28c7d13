package handlers

import (
	"cvrp-route-service/internal/api/dto"
	"net/http"
)

// Health reports liveness along with the routing capabilities of this instance.
func (h *RouteHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.HealthResponse{
		Status:        "ok",
		Algorithms:    len(h.Registry.Names()),
		ResultStorage: h.Results != nil,
	})
}
