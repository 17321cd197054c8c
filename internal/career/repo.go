// Package career serves career-field rankings and per-field background
// info for the career-orientation view.
package career

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound means no data exists for the requested category or field.
var ErrNotFound = errors.New("career data not found")

// Ranking categories.
const (
	CategoryRecommended    = "recommended"
	CategoryNotRecommended = "not-recommended"
)

// FieldRank is one ranked career field.
type FieldRank struct {
	Field string `json:"field"`
	Rank  int    `json:"rank"`
}

// Repository reads career data from Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Rankings returns the ranked field list for a category.
func (r *Repository) Rankings(ctx context.Context, category string) ([]FieldRank, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT fields FROM career_rankings WHERE category = $1`, category,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var fields []FieldRank
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode career rankings %s: %w", category, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return fields, nil
}

// Info returns the stored info document for one field.
func (r *Repository) Info(ctx context.Context, field string) (json.RawMessage, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT info FROM career_info WHERE field = $1`, field,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
