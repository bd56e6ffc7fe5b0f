package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thinkscotty/ideagen/internal/models"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// LogGeneration records one generation attempt, successful or not.
func (db *DB) LogGeneration(ctx context.Context, entry models.GenerationLog) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO generation_log (user_id, niche, target_audience, model, ideas_returned, duration_ms, error_type, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.UserID, entry.Niche, entry.TargetAudience, entry.Model,
		entry.IdeasReturned, entry.DurationMs,
		nullString(entry.ErrorType), nullString(entry.ErrorMessage))
	return err
}

// RecentGenerations returns the latest entries, newest first.
func (db *DB) RecentGenerations(ctx context.Context, limit int) ([]models.GenerationLog, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, user_id, niche, target_audience, model, ideas_returned, duration_ms,
		       COALESCE(error_type, ''), COALESCE(error_message, ''), created_at
		FROM generation_log
		ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.GenerationLog
	for rows.Next() {
		var l models.GenerationLog
		var userID sql.NullInt64
		var createdAt string
		if err := rows.Scan(&l.ID, &userID, &l.Niche, &l.TargetAudience, &l.Model,
			&l.IdeasReturned, &l.DurationMs, &l.ErrorType, &l.ErrorMessage, &createdAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			l.UserID = &userID.Int64
		}
		l.CreatedAt, _ = parseTime(createdAt)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// CleanOldGenerations deletes log entries older than the given number of days.
func (db *DB) CleanOldGenerations(days int) (int64, error) {
	res, err := db.conn.Exec(
		`DELETE FROM generation_log WHERE created_at < datetime('now', ?)`,
		fmt.Sprintf("-%d days", days))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (db *DB) GetStats() (models.Stats, error) {
	var s models.Stats

	users, err := db.UserCount()
	if err != nil {
		return s, err
	}
	s.TotalUsers = users

	favs, err := db.FavoriteCount()
	if err != nil {
		return s, err
	}
	s.TotalFavorites = favs

	db.conn.QueryRow(`SELECT COUNT(*) FROM generation_log`).Scan(&s.TotalGenerations)
	db.conn.QueryRow(`SELECT COUNT(*) FROM generation_log WHERE error_type IS NOT NULL`).Scan(&s.FailedGenerations)
	db.conn.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&s.TotalDocuments)

	size, _ := db.DatabaseSizeBytes()
	s.DatabaseSizeBytes = size

	return s, nil
}
