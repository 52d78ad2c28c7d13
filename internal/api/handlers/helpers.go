package handlers

import (
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-kit/log/level"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		level.Error(obs.Logger()).Log("msg", "encode failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into v, rejecting unknown fields.
// It writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeDomainError maps the routing error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCapacity),
		errors.Is(err, domain.ErrUnknownAlgorithm),
		errors.Is(err, domain.ErrEmptyStopSet),
		errors.Is(err, domain.ErrDuplicateStop),
		errors.Is(err, domain.ErrInvalidDemand):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInfeasibleDemand):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrResultNotFound):
		writeError(w, r, http.StatusNotFound, "route not found")
	case errors.Is(err, domain.ErrOracleUnavailable):
		writeError(w, r, http.StatusBadGateway, "travel oracle unavailable")
	default:
		level.Error(obs.Logger()).Log("req_id", obs.RequestID(r.Context()), "msg", op+" failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
