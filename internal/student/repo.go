package student

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound means the student does not exist.
var ErrNotFound = errors.New("student not found")

// Repository is the student directory.
type Repository interface {
	// FindByLinkingCode returns the first student carrying the code. Codes
	// are not unique; any further matches are unreachable through this path.
	FindByLinkingCode(ctx context.Context, code string) (*Student, error)
	FindByID(ctx context.Context, id string) (*Student, error)
	// AddParent appends a parent reference. Repeated calls append
	// duplicates; deduplication is intentionally not done here.
	AddParent(ctx context.Context, studentID, userID string) error
	List(ctx context.Context) ([]Student, error)
	Create(ctx context.Context, s Student) (*Student, error)
}

// PostgresRepository persists students in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a repo.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const studentColumns = `id, name, age, school_name, class, grade, linking_code,
	parents, image_url, recent_emotion, interests, recent_performance,
	subjects, institutions`

func (r *PostgresRepository) FindByLinkingCode(ctx context.Context, code string) (*Student, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE linking_code = $1 LIMIT 1`, code)
	return scanStudent(row)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Student, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	return scanStudent(row)
}

func (r *PostgresRepository) AddParent(ctx context.Context, studentID, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students SET parents = parents || to_jsonb($2::text) WHERE id = $1
	`, studentID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+studentColumns+` FROM students ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		s, err := scanStudentRow(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, s Student) (*Student, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	parents, err := json.Marshal(s.Parents)
	if err != nil {
		return nil, err
	}
	emotion, err := json.Marshal(s.RecentEmotion)
	if err != nil {
		return nil, err
	}
	interests, err := json.Marshal(s.Interests)
	if err != nil {
		return nil, err
	}
	performance, err := json.Marshal(s.RecentPerformance)
	if err != nil {
		return nil, err
	}
	subjects, err := json.Marshal(s.Subjects)
	if err != nil {
		return nil, err
	}
	institutions, err := json.Marshal(s.Institutions)
	if err != nil {
		return nil, err
	}
	if s.Parents == nil {
		parents = []byte("[]")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO students (id, name, age, school_name, class, grade,
			linking_code, parents, image_url, recent_emotion, interests,
			recent_performance, subjects, institutions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, s.ID, s.Name, s.Age, s.SchoolName, s.Class, s.Grade, s.LinkingCode,
		string(parents), s.ImageURL, string(emotion), string(interests),
		string(performance), string(subjects), string(institutions))
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row *sql.Row) (*Student, error) {
	s, err := scanStudentRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func scanStudentRow(row rowScanner) (*Student, error) {
	var s Student
	var parents, emotion, interests, performance, subjects, institutions []byte
	err := row.Scan(&s.ID, &s.Name, &s.Age, &s.SchoolName, &s.Class, &s.Grade,
		&s.LinkingCode, &parents, &s.ImageURL, &emotion, &interests,
		&performance, &subjects, &institutions)
	if err != nil {
		return nil, err
	}
	for _, field := range []struct {
		raw []byte
		dst any
	}{
		{parents, &s.Parents},
		{emotion, &s.RecentEmotion},
		{interests, &s.Interests},
		{performance, &s.RecentPerformance},
		{subjects, &s.Subjects},
		{institutions, &s.Institutions},
	} {
		if err := json.Unmarshal(field.raw, field.dst); err != nil {
			return nil, fmt.Errorf("decode student %s: %w", s.ID, err)
		}
	}
	return &s, nil
}
