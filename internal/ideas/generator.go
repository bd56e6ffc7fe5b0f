package ideas

import (
	"context"
	"log/slog"

	"github.com/thinkscotty/ideagen/internal/models"
)

// ContentGenerator is the remote call the pipeline depends on. *gemini.Client satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model, prompt string) (string, error)
}

// Batch is the result of one generation call.
type Batch struct {
	Ideas  []models.Idea `json:"ideas"`
	Model  string        `json:"model"`
	Prompt string        `json:"-"`
}

// Generator runs prompt building, the remote call, extraction and
// normalization in sequence.
type Generator struct {
	client ContentGenerator
	model  string
	count  int
}

// NewGenerator creates a generator bound to a model. A count of zero or less
// uses DefaultCount.
func NewGenerator(client ContentGenerator, model string, count int) *Generator {
	if count <= 0 {
		count = DefaultCount
	}
	return &Generator{client: client, model: model, count: count}
}

// Model returns the model identifier used for generation.
func (g *Generator) Model() string { return g.model }

// Generate requests a batch of ideas for the niche and audience. Errors from
// the remote call and from parsing are returned unchanged so callers can tell
// them apart.
func (g *Generator) Generate(ctx context.Context, niche, targetAudience string) (Batch, error) {
	prompt := BuildPrompt(niche, targetAudience, g.count)

	text, err := g.client.GenerateContent(ctx, g.model, prompt)
	if err != nil {
		return Batch{}, err
	}

	payload := ExtractPayload(text)
	ideas, err := Normalize(payload, niche, targetAudience)
	if err != nil {
		slog.Debug("Raw provider response", "text", text)
		return Batch{}, err
	}

	slog.Info("Generated ideas", "niche", niche, "requested", g.count, "returned", len(ideas), "model", g.model)
	return Batch{Ideas: ideas, Model: g.model, Prompt: prompt}, nil
}
