// Package export turns idea lists into plain-text documents and publishes
// them through a Gateway that returns a shareable URL.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/thinkscotty/ideagen/internal/auth"
	"github.com/thinkscotty/ideagen/internal/favorites"
	"github.com/thinkscotty/ideagen/internal/models"
)

// Document titles and the header date layout.
const (
	IdeasTitle     = "Generated Ideas"
	FavoritesTitle = "Favorite Ideas"
	DateLayout     = "1/2/2006"
)

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("export: no ideas to export")

// Gateway creates a document from text blocks and returns where it lives.
type Gateway interface {
	Create(ctx context.Context, title string, blocks []string) (url string, err error)
}

// IdeasBlocks renders a generated batch. date is preformatted by the caller.
func IdeasBlocks(title, date string, ideas []models.Idea) []string {
	blocks := make([]string, 0, len(ideas)+1)
	blocks = append(blocks, fmt.Sprintf("%s\nDate: %s\n", title, date))
	for i, idea := range ideas {
		blocks = append(blocks, ideaBlock(i+1, idea))
	}
	return blocks
}

// FavoritesBlocks renders favorites grouped by day. Numbering restarts in
// each group.
func FavoritesBlocks(title, date string, groups []favorites.DateGroup) []string {
	blocks := []string{fmt.Sprintf("%s\nExported: %s\n", title, date)}
	for _, g := range groups {
		blocks = append(blocks, fmt.Sprintf("Date: %s\n", g.Date))
		for i, idea := range g.Ideas {
			blocks = append(blocks, ideaBlock(i+1, idea))
		}
	}
	return blocks
}

func ideaBlock(n int, idea models.Idea) string {
	return fmt.Sprintf("%d. %s\nType: %s   Niche: %s\n%s\n", n, idea.Title, idea.Type, idea.Niche, idea.Description)
}

// Render joins blocks the way a document body is displayed.
func Render(blocks []string) string {
	return strings.Join(blocks, "\n\n")
}

// DocumentStore persists exported documents. database.DB implements it.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
}

// DocumentGateway stores documents locally and serves them under baseURL.
type DocumentGateway struct {
	store   DocumentStore
	baseURL string
}

func NewDocumentGateway(store DocumentStore, baseURL string) *DocumentGateway {
	return &DocumentGateway{store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

func (g *DocumentGateway) Create(ctx context.Context, title string, blocks []string) (string, error) {
	if len(blocks) == 0 {
		return "", ErrEmpty
	}
	doc := &models.Document{
		ID:     uuid.NewString(),
		Title:  title,
		Blocks: blocks,
	}
	if u := auth.UserFrom(ctx); u != nil {
		id := u.ID
		doc.OwnerID = &id
	}
	if err := g.store.CreateDocument(ctx, doc); err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	return g.baseURL + "/documents/" + doc.ID, nil
}
