package ideas

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thinkscotty/ideagen/internal/models"
)

// ErrUnparseable marks provider output that is not a JSON array of ideas.
var ErrUnparseable = errors.New("unparseable response")

// ParseError carries the text that failed to parse.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %v", ErrUnparseable, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrUnparseable, e.Err} }

type rawIdea struct {
	Title       string          `json:"title"`
	Type        models.IdeaType `json:"type"`
	Description string          `json:"description"`
}

// Normalize parses payload as a JSON array of idea objects and attaches the
// batch context to each. It fails on any parse error without returning a
// partial batch. Item count and type values are not checked.
func Normalize(payload, niche, targetAudience string) ([]models.Idea, error) {
	if !strings.HasPrefix(strings.TrimSpace(payload), "[") {
		return nil, &ParseError{Raw: payload, Err: errors.New("payload is not a JSON array")}
	}

	var raw []*rawIdea
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, &ParseError{Raw: payload, Err: err}
	}

	ideas := make([]models.Idea, 0, len(raw))
	unknown := 0
	for i, r := range raw {
		if r == nil {
			return nil, &ParseError{Raw: payload, Err: fmt.Errorf("element %d is null", i)}
		}
		if !r.Type.Known() {
			unknown++
		}
		ideas = append(ideas, models.Idea{
			Title:          r.Title,
			Type:           r.Type,
			Description:    r.Description,
			Niche:          niche,
			TargetAudience: targetAudience,
		})
	}

	if unknown > 0 {
		slog.Warn("Provider returned ideas with unrecognized type", "count", unknown, "total", len(ideas))
	}
	return ideas, nil
}
