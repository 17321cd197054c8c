// Package catalog holds the institution and course directory backing the
// career-orientation views.
package catalog

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound means the catalog entry does not exist.
var ErrNotFound = errors.New("catalog entry not found")

// Institution is a higher-education provider.
type Institution struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Rank    int    `json:"rank"`
	Address string `json:"address"`
}

// Course is one course offered by an institution.
type Course struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Rank             int    `json:"rank"`
	Duration         int    `json:"duration"`
	InternationalFee int    `json:"international_fee"`
	DomesticFee      int    `json:"domestic_fee"`
	Institution      string `json:"-"`
}

// Repository reads the catalog.
type Repository interface {
	FindInstitution(ctx context.Context, id string) (*Institution, error)
	FindCourse(ctx context.Context, id string) (*Course, error)
}

// PostgresRepository reads the catalog from Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a repo.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindInstitution(ctx context.Context, id string) (*Institution, error) {
	var inst Institution
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, rank, address FROM institutions WHERE id = $1`, id,
	).Scan(&inst.ID, &inst.Name, &inst.Rank, &inst.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *PostgresRepository) FindCourse(ctx context.Context, id string) (*Course, error) {
	var c Course
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, rank, duration, international_fee, domestic_fee, institution
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Rank, &c.Duration, &c.InternationalFee, &c.DomesticFee, &c.Institution)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
