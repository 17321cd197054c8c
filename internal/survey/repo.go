// Package survey serves the per-student survey and report sections
// (section0..section5 plus the academic summary).
package survey

import (
	"context"
	"database/sql"
	"encoding/json"
)

// Sections that exist; requests for anything else are rejected upstream.
var Sections = []string{
	"section0", "section1", "section2", "section3", "section4", "section5",
	"academic",
}

// Known reports whether section is one of the served section names.
func Known(section string) bool {
	for _, s := range Sections {
		if s == section {
			return true
		}
	}
	return false
}

// Repository reads section payloads from Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Documents returns the payloads stored for a section, optionally filtered
// to one student. The payload shape is opaque to the server; the frontend
// owns its schema.
func (r *Repository) Documents(ctx context.Context, section, studentID string) ([]json.RawMessage, error) {
	query := `SELECT payload FROM survey_sections WHERE section = $1`
	args := []any{section}
	if studentID != "" {
		query += ` AND student_id = $2`
		args = append(args, studentID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []json.RawMessage{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		docs = append(docs, json.RawMessage(raw))
	}
	return docs, rows.Err()
}
