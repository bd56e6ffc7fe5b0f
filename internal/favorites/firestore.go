package favorites

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/thinkscotty/ideagen/internal/models"
)

type firestoreFavorite struct {
	UID            string `firestore:"uid"`
	Title          string `firestore:"title"`
	Type           string `firestore:"type"`
	Description    string `firestore:"description"`
	Niche          string `firestore:"niche"`
	TargetAudience string `firestore:"targetAudience"`
	IsFavorite     bool   `firestore:"isFavorite"`
	Timestamp      string `firestore:"timestamp"`
}

// FirestoreGateway stores favorites in a flat collection keyed by generated
// document ids, the same layout the hosted web client writes.
type FirestoreGateway struct {
	coll *firestore.CollectionRef
}

func NewFirestoreGateway(client *firestore.Client, collection string) *FirestoreGateway {
	return &FirestoreGateway{coll: client.Collection(collection)}
}

func (g *FirestoreGateway) Save(ctx context.Context, owner string, idea models.Idea) (models.Idea, error) {
	doc := firestoreFavorite{
		UID:            owner,
		Title:          idea.Title,
		Type:           string(idea.Type),
		Description:    idea.Description,
		Niche:          idea.Niche,
		TargetAudience: idea.TargetAudience,
		IsFavorite:     true,
		Timestamp:      idea.Timestamp,
	}
	ref, _, err := g.coll.Add(ctx, doc)
	if err != nil {
		return models.Idea{}, fmt.Errorf("add favorite: %w", err)
	}
	idea.ID = ref.ID
	idea.IsFavorite = true
	return idea, nil
}

func (g *FirestoreGateway) List(ctx context.Context, owner string) ([]models.Idea, error) {
	snaps, err := g.coll.
		Where("uid", "==", owner).
		Where("isFavorite", "==", true).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}

	out := make([]models.Idea, 0, len(snaps))
	for _, snap := range snaps {
		var f firestoreFavorite
		if err := snap.DataTo(&f); err != nil {
			return nil, fmt.Errorf("decode favorite %s: %w", snap.Ref.ID, err)
		}
		out = append(out, models.Idea{
			ID:             snap.Ref.ID,
			Title:          f.Title,
			Type:           models.IdeaType(f.Type),
			Description:    f.Description,
			Niche:          f.Niche,
			TargetAudience: f.TargetAudience,
			IsFavorite:     f.IsFavorite,
			Timestamp:      f.Timestamp,
		})
	}
	return out, nil
}

// Remove checks ownership before deleting; Firestore deletes of missing
// documents succeed silently.
func (g *FirestoreGateway) Remove(ctx context.Context, owner, id string) error {
	ref := g.coll.Doc(id)
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get favorite: %w", err)
	}

	var f firestoreFavorite
	if err := snap.DataTo(&f); err != nil {
		return fmt.Errorf("decode favorite %s: %w", id, err)
	}
	if f.UID != owner {
		return ErrNotFound
	}

	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}
