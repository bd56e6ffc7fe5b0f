package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/thinkscotty/ideagen/internal/export"
	"github.com/thinkscotty/ideagen/internal/favorites"
	"github.com/thinkscotty/ideagen/internal/ideas"
)

// Error kinds that are not generation failures.
const (
	kindValidation      = "validation"
	kindUnauthenticated = "unauthenticated"
	kindNotFound        = "not_found"
	kindConflict        = "conflict"
)

// maxBody caps JSON request bodies. Export requests carry whole batches.
const maxBody = 1 << 20

func jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func jsonStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, message, kind string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message, "kind": kind})
}

// decodeJSON reads a JSON body into v, writing a 400 and returning false on
// failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		jsonError(w, "Invalid JSON body: "+err.Error(), kindValidation, http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps an error from the domain packages onto an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, favorites.ErrUnauthenticated):
		jsonError(w, "Authentication required", kindUnauthenticated, http.StatusUnauthorized)
	case errors.Is(err, favorites.ErrNotFound):
		jsonError(w, "Favorite not found", kindNotFound, http.StatusNotFound)
	case errors.Is(err, export.ErrEmpty):
		jsonError(w, err.Error(), kindValidation, http.StatusBadRequest)
	default:
		kind := ideas.Kind(err)
		switch kind {
		case ideas.KindTransport:
			slog.Warn("Provider request failed", "error", err)
			jsonError(w, "The idea provider could not be reached: "+err.Error(), kind, http.StatusBadGateway)
		case ideas.KindUnparseable:
			slog.Warn("Provider returned an unparseable response", "error", err)
			jsonError(w, "The idea provider returned a response that could not be parsed", kind, http.StatusBadGateway)
		case ideas.KindConfiguration:
			slog.Error("Provider not configured", "error", err)
			jsonError(w, err.Error(), kind, http.StatusServiceUnavailable)
		case ideas.KindCanceled:
			jsonError(w, "Request canceled", kind, http.StatusServiceUnavailable)
		default:
			slog.Error("Request failed", "error", err)
			jsonError(w, "Internal error", ideas.KindInternal, http.StatusInternalServerError)
		}
	}
}
