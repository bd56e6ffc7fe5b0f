package gemini

import (
	"context"
	"log/slog"
	"strings"
)

// ModelLister is satisfied by *Client.
type ModelLister interface {
	ListModels(ctx context.Context) ([]Model, error)
}

type DiscoveryOpts struct {
	Preferred string // e.g. "gemini-1.5-flash"
	Family    string // e.g. "gemini"
	Fallback  string // used when nothing matches or listing fails
}

// ModelID strips the "models/" style prefix from a catalog name.
func ModelID(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// SelectModel picks the first model containing the preferred name, then the
// first containing the family name, and otherwise returns the fallback.
// Matching is case-insensitive.
func SelectModel(models []Model, opts DiscoveryOpts) string {
	if m, ok := firstContaining(models, opts.Preferred); ok {
		return ModelID(m.Name)
	}
	if m, ok := firstContaining(models, opts.Family); ok {
		return ModelID(m.Name)
	}
	return opts.Fallback
}

func firstContaining(models []Model, needle string) (Model, bool) {
	if needle == "" {
		return Model{}, false
	}
	needle = strings.ToLower(needle)
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.Name), needle) {
			return m, true
		}
	}
	return Model{}, false
}

// Discover lists the account's models and selects one. It never fails:
// any listing error is logged and the fallback is returned.
func Discover(ctx context.Context, lister ModelLister, opts DiscoveryOpts) string {
	models, err := lister.ListModels(ctx)
	if err != nil {
		slog.Warn("Model discovery failed, using default model", "model", opts.Fallback, "error", err)
		return opts.Fallback
	}

	slog.Debug("Available models", "count", len(models))

	model := SelectModel(models, opts)
	if model == opts.Fallback {
		if _, ok := firstContaining(models, opts.Family); !ok {
			slog.Warn("No matching model in catalog, using default", "family", opts.Family, "model", model)
		}
	}
	slog.Info("Using model", "model", model)
	return model
}
