package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/thinkscotty/ideagen/internal/auth"
	"github.com/thinkscotty/ideagen/internal/events"
	"github.com/thinkscotty/ideagen/internal/ideas"
	"github.com/thinkscotty/ideagen/internal/metrics"
	"github.com/thinkscotty/ideagen/internal/models"
)

type generateRequest struct {
	Niche          string `json:"niche"`
	TargetAudience string `json:"targetAudience"`
}

type generatedEvent struct {
	Niche          string `json:"niche"`
	TargetAudience string `json:"targetAudience"`
	Model          string `json:"model"`
	Count          int    `json:"count"`
	UserID         *int64 `json:"user_id,omitempty"`
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"model": s.ideas.Model()})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Niche) == "" || strings.TrimSpace(req.TargetAudience) == "" {
		jsonError(w, "niche and targetAudience are required", kindValidation, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var userID *int64
	if u := auth.UserFrom(ctx); u != nil {
		id := u.ID
		userID = &id
	}

	start := time.Now()
	batch, err := s.ideas.Generate(ctx, req.Niche, req.TargetAudience)
	elapsed := time.Since(start)
	s.recordGeneration(ctx, req, userID, batch, elapsed, err)

	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.favs.Mark(ctx, batch.Ideas); err != nil {
		slog.Warn("Failed to mark favorites on generated batch", "error", err)
	}

	events.Emit(s.events, events.SubjectIdeasGenerated, generatedEvent{
		Niche:          req.Niche,
		TargetAudience: req.TargetAudience,
		Model:          batch.Model,
		Count:          len(batch.Ideas),
		UserID:         userID,
	})

	jsonResponse(w, batch)
}

// recordGeneration writes the generation log and metrics for one attempt.
// Failures here are logged and never affect the response.
func (s *Server) recordGeneration(ctx context.Context, req generateRequest, userID *int64, batch ideas.Batch, elapsed time.Duration, genErr error) {
	model := batch.Model
	if model == "" {
		model = s.ideas.Model()
	}

	entry := models.GenerationLog{
		UserID:         userID,
		Niche:          req.Niche,
		TargetAudience: req.TargetAudience,
		Model:          model,
		IdeasReturned:  len(batch.Ideas),
		DurationMs:     elapsed.Milliseconds(),
	}
	outcome := "ok"
	if genErr != nil {
		outcome = ideas.Kind(genErr)
		entry.ErrorType = outcome
		entry.ErrorMessage = genErr.Error()
	} else {
		metrics.IdeasReturned.Observe(float64(len(batch.Ideas)))
	}
	metrics.GenerationsTotal.WithLabelValues(model, outcome).Inc()
	metrics.GenerationDuration.WithLabelValues(model).Observe(elapsed.Seconds())

	// The request context may already be cancelled when the client went away.
	if err := s.db.LogGeneration(context.WithoutCancel(ctx), entry); err != nil {
		slog.Error("Failed to write generation log", "error", err)
	}
}
