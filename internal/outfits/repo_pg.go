package outfits

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PGRepo implements Repo using Postgres through sqlx.
type PGRepo struct {
	DB *sqlx.DB
}

// NewPGRepo wraps a pgx-backed *sql.DB.
func NewPGRepo(db *sql.DB, driverName string) *PGRepo {
	return &PGRepo{DB: sqlx.NewDb(db, driverName)}
}

// Create inserts a generation record.
func (r *PGRepo) Create(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO outfit_generations (
	id, client_id, body_shape, gender, outcome, error_message,
	recommendation, image_count, image_urls, duration_ms, created_at
)
VALUES (
	:id, :client_id, :body_shape, :gender, :outcome, :error_message,
	:recommendation, :image_count, :image_urls, :duration_ms, :created_at
)`
	images := rec.Images
	if images == nil {
		images = []string{}
	}
	raw, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("marshal image urls: %w", err)
	}
	rec.ImageURLs = string(raw)

	if _, err := r.DB.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

// List returns records newest first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Record, error) {
	const query = `
SELECT id, client_id, body_shape, gender, outcome, error_message,
	recommendation, image_count, image_urls, duration_ms, created_at
FROM outfit_generations
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	records := []Record{}
	if err := r.DB.SelectContext(ctx, &records, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	for i := range records {
		records[i].Images = []string{}
		if records[i].ImageURLs == "" {
			continue
		}
		if err := json.Unmarshal([]byte(records[i].ImageURLs), &records[i].Images); err != nil {
			return nil, fmt.Errorf("decode image urls for %s: %w", records[i].ID, err)
		}
	}
	return records, nil
}
