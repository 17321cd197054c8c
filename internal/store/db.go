package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB creates a Postgres connection with sane defaults and ensures the
// schema exists.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &DB{Client: db}, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id                       TEXT PRIMARY KEY,
		name                     TEXT NOT NULL,
		email                    TEXT NOT NULL UNIQUE,
		password                 TEXT NOT NULL,
		linking_code             TEXT NOT NULL DEFAULT '',
		children                 JSONB NOT NULL DEFAULT '[]',
		mobile_number            TEXT NOT NULL DEFAULT '',
		residential_address      TEXT NOT NULL DEFAULT '',
		educational_background   TEXT NOT NULL DEFAULT '',
		occupational_area        TEXT NOT NULL DEFAULT '',
		annual_education_budget  TEXT NOT NULL DEFAULT '',
		preferred_foe            JSONB NOT NULL DEFAULT '[]',
		notes                    TEXT NOT NULL DEFAULT '',
		avatar                   TEXT NOT NULL DEFAULT '',
		created_at               TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at               TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS students (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL DEFAULT '',
		age                INT NOT NULL DEFAULT 0,
		school_name        TEXT NOT NULL DEFAULT '',
		class              TEXT NOT NULL DEFAULT '',
		grade              INT NOT NULL DEFAULT 0,
		linking_code       TEXT NOT NULL DEFAULT '',
		parents            JSONB NOT NULL DEFAULT '[]',
		image_url          TEXT NOT NULL DEFAULT '',
		recent_emotion     JSONB NOT NULL DEFAULT '{}',
		interests          JSONB NOT NULL DEFAULT '[]',
		recent_performance JSONB NOT NULL DEFAULT '[]',
		subjects           JSONB NOT NULL DEFAULT '[]',
		institutions       JSONB NOT NULL DEFAULT '[]'
	);
	-- linking_code is deliberately NOT unique: lookups take the first match.
	CREATE INDEX IF NOT EXISTS idx_students_linking_code ON students (linking_code);

	CREATE TABLE IF NOT EXISTS institutions (
		id      TEXT PRIMARY KEY,
		name    TEXT NOT NULL,
		rank    INT NOT NULL DEFAULT 0,
		address TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS courses (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		rank              INT NOT NULL DEFAULT 0,
		duration          INT NOT NULL DEFAULT 0,
		international_fee INT NOT NULL DEFAULT 0,
		domestic_fee      INT NOT NULL DEFAULT 0,
		institution       TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS events (
		id         TEXT PRIMARY KEY,
		student_id TEXT NOT NULL DEFAULT '',
		event_name TEXT NOT NULL DEFAULT '',
		start_date TIMESTAMPTZ,
		end_date   TIMESTAMPTZ,
		event_type TEXT NOT NULL DEFAULT '',
		location   TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS career_rankings (
		category TEXT PRIMARY KEY,
		fields   JSONB NOT NULL DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS career_info (
		field TEXT PRIMARY KEY,
		info  JSONB NOT NULL DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS survey_sections (
		id         TEXT PRIMARY KEY,
		section    TEXT NOT NULL,
		student_id TEXT NOT NULL DEFAULT '',
		payload    JSONB NOT NULL DEFAULT '{}'
	);
	CREATE INDEX IF NOT EXISTS idx_survey_sections_section ON survey_sections (section, student_id);
	`
	_, err := db.Exec(schema)
	return err
}
