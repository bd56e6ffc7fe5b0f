package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/thinkscotty/ideagen/internal/events"
	"github.com/thinkscotty/ideagen/internal/favorites"
	"github.com/thinkscotty/ideagen/internal/metrics"
	"github.com/thinkscotty/ideagen/internal/models"
)

func (s *Server) countFavoriteOp(op string, err error) {
	metrics.FavoriteOperationsTotal.WithLabelValues(op, s.cfg.Favorites.Backend, metrics.Status(err)).Inc()
}

// location is the zone favorites are grouped by; ?tz= overrides UTC.
func location(r *http.Request) *time.Location {
	if tz := r.URL.Query().Get("tz"); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

func (s *Server) handleFavoritesList(w http.ResponseWriter, r *http.Request) {
	favs, err := s.favs.List(r.Context())
	s.countFavoriteOp("list", err)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("group") == "date" {
		groups := favorites.GroupByDate(favs, location(r))
		if groups == nil {
			groups = []favorites.DateGroup{}
		}
		jsonResponse(w, map[string]any{"groups": groups})
		return
	}
	jsonResponse(w, map[string]any{"favorites": favs})
}

func validIdea(w http.ResponseWriter, idea models.Idea) bool {
	if strings.TrimSpace(idea.Title) == "" {
		jsonError(w, "title is required", kindValidation, http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleFavoriteSave(w http.ResponseWriter, r *http.Request) {
	var idea models.Idea
	if !decodeJSON(w, r, &idea) || !validIdea(w, idea) {
		return
	}

	saved, err := s.favs.Save(r.Context(), idea)
	s.countFavoriteOp("save", err)
	if err != nil {
		writeError(w, err)
		return
	}

	events.Emit(s.events, events.SubjectFavoriteAdded, saved)
	jsonStatus(w, http.StatusCreated, map[string]any{"favorite": saved})
}

func (s *Server) handleFavoriteDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := s.favs.Remove(r.Context(), id)
	s.countFavoriteOp("remove", err)
	if err != nil {
		writeError(w, err)
		return
	}

	events.Emit(s.events, events.SubjectFavoriteRemoved, map[string]string{"id": id})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFavoriteToggle(w http.ResponseWriter, r *http.Request) {
	var idea models.Idea
	if !decodeJSON(w, r, &idea) || !validIdea(w, idea) {
		return
	}

	res, err := s.favs.Toggle(r.Context(), idea)
	s.countFavoriteOp("toggle", err)
	if err != nil {
		writeError(w, err)
		return
	}

	subject := events.SubjectFavoriteRemoved
	if res.Favorited {
		subject = events.SubjectFavoriteAdded
	}
	events.Emit(s.events, subject, map[string]any{
		"title": idea.Title,
		"type":  idea.Type,
		"niche": idea.Niche,
	})
	jsonResponse(w, res)
}
