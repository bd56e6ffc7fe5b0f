package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/thinkscotty/ideagen/internal/favorites"
	"github.com/thinkscotty/ideagen/internal/models"
)

// Favorites returns a favorites.Gateway backed by this database.
func (db *DB) Favorites() favorites.Gateway {
	return favoriteStore{db: db}
}

type favoriteStore struct {
	db *DB
}

func (s favoriteStore) Save(ctx context.Context, owner string, idea models.Idea) (models.Idea, error) {
	idea.ID = uuid.NewString()
	idea.IsFavorite = true
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO favorites (id, uid, title, type, description, niche, target_audience, is_favorite, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		idea.ID, owner, idea.Title, string(idea.Type), idea.Description,
		idea.Niche, idea.TargetAudience, idea.Timestamp)
	if err != nil {
		return models.Idea{}, fmt.Errorf("insert favorite: %w", err)
	}
	return idea, nil
}

func (s favoriteStore) List(ctx context.Context, owner string) ([]models.Idea, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, title, type, description, niche, target_audience, is_favorite, timestamp
		FROM favorites
		WHERE uid = ? AND is_favorite = 1
		ORDER BY timestamp DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	defer rows.Close()

	var out []models.Idea
	for rows.Next() {
		var idea models.Idea
		var typ string
		var isFav int
		if err := rows.Scan(&idea.ID, &idea.Title, &typ, &idea.Description,
			&idea.Niche, &idea.TargetAudience, &isFav, &idea.Timestamp); err != nil {
			return nil, err
		}
		idea.Type = models.IdeaType(typ)
		idea.IsFavorite = isFav == 1
		out = append(out, idea)
	}
	return out, rows.Err()
}

func (s favoriteStore) Remove(ctx context.Context, owner, id string) error {
	res, err := s.db.conn.ExecContext(ctx, `DELETE FROM favorites WHERE id = ? AND uid = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return favorites.ErrNotFound
	}
	return nil
}

// FavoriteCount returns the number of stored favorites across all owners.
func (db *DB) FavoriteCount() (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM favorites`).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return n, err
}
