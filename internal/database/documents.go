package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/thinkscotty/ideagen/internal/models"
)

// CreateDocument stores an exported document. The caller assigns the id.
func (db *DB) CreateDocument(ctx context.Context, doc *models.Document) error {
	blocks, err := json.Marshal(doc.Blocks)
	if err != nil {
		return fmt.Errorf("encode blocks: %w", err)
	}
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO documents (id, title, blocks, owner_id) VALUES (?, ?, ?, ?)`,
		doc.ID, doc.Title, string(blocks), doc.OwnerID)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetDocument returns sql.ErrNoRows when id is unknown.
func (db *DB) GetDocument(ctx context.Context, id string) (models.Document, error) {
	var doc models.Document
	var blocks, createdAt string
	var owner sql.NullInt64
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, blocks, owner_id, created_at FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Title, &blocks, &owner, &createdAt)
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal([]byte(blocks), &doc.Blocks); err != nil {
		return doc, fmt.Errorf("decode blocks of %s: %w", id, err)
	}
	if owner.Valid {
		doc.OwnerID = &owner.Int64
	}
	doc.CreatedAt, _ = parseTime(createdAt)
	return doc, nil
}
