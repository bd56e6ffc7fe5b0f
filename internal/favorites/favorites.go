// Package favorites stores ideas a user has starred. Storage is reached
// through Gateway; identity comes from the request context.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/thinkscotty/ideagen/internal/auth"
	"github.com/thinkscotty/ideagen/internal/models"
)

var (
	ErrUnauthenticated = errors.New("favorites: no authenticated user")
	ErrNotFound        = errors.New("favorites: not found")
)

// Key identifies a favorite across batches. Description and audience are
// deliberately not part of it: regenerated ideas with reworded descriptions
// collapse onto the same favorite.
type Key struct {
	Title string
	Type  models.IdeaType
	Niche string
}

func KeyOf(idea models.Idea) Key {
	return Key{Title: idea.Title, Type: idea.Type, Niche: idea.Niche}
}

// Gateway is the owner-scoped storage contract. Remove must return
// ErrNotFound when id does not exist or belongs to another owner.
type Gateway interface {
	Save(ctx context.Context, owner string, idea models.Idea) (models.Idea, error)
	List(ctx context.Context, owner string) ([]models.Idea, error)
	Remove(ctx context.Context, owner, id string) error
}

type Service struct {
	store Gateway
	now   func() time.Time
}

func NewService(store Gateway) *Service {
	return &Service{store: store, now: time.Now}
}

// Save persists a copy of idea for the current user, stamped with the
// current time.
func (s *Service) Save(ctx context.Context, idea models.Idea) (models.Idea, error) {
	u := auth.UserFrom(ctx)
	if u == nil {
		return models.Idea{}, ErrUnauthenticated
	}

	idea.ID = ""
	idea.IsFavorite = true
	idea.Timestamp = s.now().UTC().Format(models.TimestampLayout)

	saved, err := s.store.Save(ctx, auth.OwnerID(u), idea)
	if err != nil {
		return models.Idea{}, fmt.Errorf("save favorite: %w", err)
	}
	return saved, nil
}

// List returns the current user's favorites, newest first. Anonymous callers
// get an empty list.
func (s *Service) List(ctx context.Context) ([]models.Idea, error) {
	u := auth.UserFrom(ctx)
	if u == nil {
		return []models.Idea{}, nil
	}

	favs, err := s.store.List(ctx, auth.OwnerID(u))
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if favs == nil {
		favs = []models.Idea{}
	}
	sort.SliceStable(favs, func(i, j int) bool {
		return favs[i].Timestamp > favs[j].Timestamp
	})
	return favs, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	u := auth.UserFrom(ctx)
	if u == nil {
		return ErrUnauthenticated
	}
	if err := s.store.Remove(ctx, auth.OwnerID(u), id); err != nil {
		return fmt.Errorf("remove favorite %s: %w", id, err)
	}
	return nil
}

type ToggleResult struct {
	Favorited bool          `json:"favorited"`
	Favorites []models.Idea `json:"favorites"`
}

// Toggle removes the stored favorite matching idea's key, or saves idea when
// none matches. The full favorites list is re-read afterwards.
func (s *Service) Toggle(ctx context.Context, idea models.Idea) (ToggleResult, error) {
	if auth.UserFrom(ctx) == nil {
		return ToggleResult{}, ErrUnauthenticated
	}

	current, err := s.List(ctx)
	if err != nil {
		return ToggleResult{}, err
	}

	var res ToggleResult
	if id, ok := index(current)[KeyOf(idea)]; ok {
		if err := s.Remove(ctx, id); err != nil {
			return ToggleResult{}, err
		}
	} else {
		if _, err := s.Save(ctx, idea); err != nil {
			return ToggleResult{}, err
		}
		res.Favorited = true
	}

	res.Favorites, err = s.List(ctx)
	if err != nil {
		return ToggleResult{}, err
	}
	return res, nil
}

// Mark flags the ideas of a batch that the current user has already
// favorited, copying the stored id onto them.
func (s *Service) Mark(ctx context.Context, batch []models.Idea) error {
	favs, err := s.List(ctx)
	if err != nil {
		return err
	}
	idx := index(favs)
	for i := range batch {
		if id, ok := idx[KeyOf(batch[i])]; ok {
			batch[i].IsFavorite = true
			batch[i].ID = id
		}
	}
	return nil
}

// index maps each key to a stored id. When duplicates exist the first
// (newest) record wins.
func index(favs []models.Idea) map[Key]string {
	idx := make(map[Key]string, len(favs))
	for _, f := range favs {
		k := KeyOf(f)
		if _, ok := idx[k]; !ok {
			idx[k] = f.ID
		}
	}
	return idx
}
