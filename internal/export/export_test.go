package export

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/thinkscotty/ideagen/internal/auth"
	"github.com/thinkscotty/ideagen/internal/favorites"
	"github.com/thinkscotty/ideagen/internal/models"
)

var sample = []models.Idea{
	{Title: "Ramen Hacks", Type: models.TypeVideo, Niche: "Cooking", Description: "Five upgrades."},
	{Title: "Pantry Audit", Type: models.TypeBlog, Niche: "Cooking", Description: "What to toss."},
}

func TestIdeasBlocks(t *testing.T) {
	blocks := IdeasBlocks("Content Ideas", "3/1/2024", sample)

	want := []string{
		"Content Ideas\nDate: 3/1/2024\n",
		"1. Ramen Hacks\nType: video   Niche: Cooking\nFive upgrades.\n",
		"2. Pantry Audit\nType: blog   Niche: Cooking\nWhat to toss.\n",
	}
	if len(blocks) != len(want) {
		t.Fatalf("blocks = %d, want %d", len(blocks), len(want))
	}
	for i := range want {
		if blocks[i] != want[i] {
			t.Errorf("block %d = %q, want %q", i, blocks[i], want[i])
		}
	}
}

func TestFavoritesBlocks(t *testing.T) {
	groups := []favorites.DateGroup{
		{Date: "2024-03-02", Ideas: sample[:1]},
		{Date: "2024-03-01", Ideas: sample[1:]},
	}
	blocks := FavoritesBlocks("My Favorites", "2024-03-03", groups)

	want := []string{
		"My Favorites\nExported: 2024-03-03\n",
		"Date: 2024-03-02\n",
		"1. Ramen Hacks\nType: video   Niche: Cooking\nFive upgrades.\n",
		"Date: 2024-03-01\n",
		"1. Pantry Audit\nType: blog   Niche: Cooking\nWhat to toss.\n",
	}
	if strings.Join(blocks, "|") != strings.Join(want, "|") {
		t.Errorf("blocks = %q\nwant %q", blocks, want)
	}
}

func TestRender(t *testing.T) {
	if got := Render([]string{"a\n", "b\n"}); got != "a\n\n\nb\n" {
		t.Errorf("Render = %q", got)
	}
}

type recordingStore struct {
	docs []*models.Document
	err  error
}

func (r *recordingStore) CreateDocument(_ context.Context, doc *models.Document) error {
	if r.err != nil {
		return r.err
	}
	r.docs = append(r.docs, doc)
	return nil
}

func TestDocumentGatewayCreate(t *testing.T) {
	store := &recordingStore{}
	gw := NewDocumentGateway(store, "https://ideas.example.com/")

	ctx := auth.WithUser(context.Background(), &models.User{ID: 7})
	url, err := gw.Create(ctx, "Content Ideas", IdeasBlocks("Content Ideas", "today", sample))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(store.docs) != 1 {
		t.Fatalf("stored %d docs", len(store.docs))
	}
	doc := store.docs[0]
	if url != "https://ideas.example.com/documents/"+doc.ID {
		t.Errorf("url = %s", url)
	}
	if doc.OwnerID == nil || *doc.OwnerID != 7 {
		t.Errorf("OwnerID = %v, want 7", doc.OwnerID)
	}
	if len(doc.Blocks) != 3 {
		t.Errorf("blocks = %d", len(doc.Blocks))
	}
}

func TestDocumentGatewayErrors(t *testing.T) {
	gw := NewDocumentGateway(&recordingStore{}, "http://x")
	if _, err := gw.Create(context.Background(), "t", nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("empty err = %v", err)
	}

	boom := errors.New("disk full")
	gw = NewDocumentGateway(&recordingStore{err: boom}, "http://x")
	if _, err := gw.Create(context.Background(), "t", []string{"a"}); !errors.Is(err, boom) {
		t.Errorf("store err = %v", err)
	}
}
