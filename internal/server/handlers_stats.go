package server

import (
	"log/slog"
	"net/http"
	"strconv"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetStats()
	if err != nil {
		slog.Error("Failed to get stats", "error", err)
		jsonError(w, "Internal error", "internal", http.StatusInternalServerError)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	recent, err := s.db.RecentGenerations(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to get recent generations", "error", err)
	}

	jsonResponse(w, map[string]any{
		"stats":              stats,
		"recent_generations": recent,
		"model":              s.ideas.Model(),
	})
}
