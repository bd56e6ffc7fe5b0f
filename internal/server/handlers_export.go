package server

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/thinkscotty/ideagen/internal/events"
	"github.com/thinkscotty/ideagen/internal/export"
	"github.com/thinkscotty/ideagen/internal/favorites"
	"github.com/thinkscotty/ideagen/internal/models"
)

type exportIdeasRequest struct {
	Title string        `json:"title"`
	Ideas []models.Idea `json:"ideas"`
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request, title string, blocks []string) {
	url, err := s.docs.Create(r.Context(), title, blocks)
	if err != nil {
		writeError(w, err)
		return
	}
	events.Emit(s.events, events.SubjectDocumentExported, map[string]any{
		"title":  title,
		"url":    url,
		"blocks": len(blocks),
	})
	jsonStatus(w, http.StatusCreated, map[string]string{"url": url})
}

func (s *Server) handleExportIdeas(w http.ResponseWriter, r *http.Request) {
	var req exportIdeasRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Ideas) == 0 {
		jsonError(w, "ideas must not be empty", kindValidation, http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = export.IdeasTitle
	}

	date := s.now().In(location(r)).Format(export.DateLayout)
	s.createDocument(w, r, title, export.IdeasBlocks(title, date, req.Ideas))
}

func (s *Server) handleExportFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := s.favs.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if len(favs) == 0 {
		jsonError(w, "no favorites to export", kindValidation, http.StatusBadRequest)
		return
	}

	loc := location(r)
	date := s.now().In(loc).Format(export.DateLayout)
	blocks := export.FavoritesBlocks(export.FavoritesTitle, date, favorites.GroupByDate(favs, loc))
	s.createDocument(w, r, export.FavoritesTitle, blocks)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.db.GetDocument(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Failed to load document", "id", r.PathValue("id"), "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(export.Render(doc.Blocks)))
}
