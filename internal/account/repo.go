package account

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository is the credential store. Hashing is the caller's concern;
// the repository only persists whatever hash it is handed.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByLinkingCode(ctx context.Context, code string) (*User, error)
	Create(ctx context.Context, user User) (*User, error)
	Save(ctx context.Context, user User) (*User, error)
	ListAll(ctx context.Context) ([]User, error)
}

// PostgresRepository persists users in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a repo.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, name, email, password, linking_code, children,
	mobile_number, residential_address, educational_background,
	occupational_area, annual_education_budget, preferred_foe, notes, avatar,
	created_at, updated_at`

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresRepository) FindByLinkingCode(ctx context.Context, code string) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE linking_code = $1 LIMIT 1`, code)
	return scanUser(row)
}

func (r *PostgresRepository) Create(ctx context.Context, user User) (*User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	children, err := json.Marshal(emptyIfNil(user.Children))
	if err != nil {
		return nil, err
	}
	preferred, err := json.Marshal(emptyIfNil(user.PreferredFoE))
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password, linking_code, children,
			mobile_number, residential_address, educational_background,
			occupational_area, annual_education_budget, preferred_foe, notes,
			avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, user.ID, user.Name, user.Email, user.Password, user.LinkingCode,
		string(children), user.MobileNumber, user.ResidentialAddress,
		user.EducationalBackground, user.OccupationalArea,
		user.AnnualEducationBudget, string(preferred), user.Notes, user.Avatar,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) Save(ctx context.Context, user User) (*User, error) {
	user.UpdatedAt = time.Now().UTC()

	children, err := json.Marshal(emptyIfNil(user.Children))
	if err != nil {
		return nil, err
	}
	preferred, err := json.Marshal(emptyIfNil(user.PreferredFoE))
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET name = $2, email = $3, password = $4, linking_code = $5,
			children = $6, mobile_number = $7, residential_address = $8,
			educational_background = $9, occupational_area = $10,
			annual_education_budget = $11, preferred_foe = $12, notes = $13,
			avatar = $14, updated_at = $15
		WHERE id = $1
	`, user.ID, user.Name, user.Email, user.Password, user.LinkingCode,
		string(children), user.MobileNumber, user.ResidentialAddress,
		user.EducationalBackground, user.OccupationalArea,
		user.AnnualEducationBudget, string(preferred), user.Notes, user.Avatar,
		user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row *sql.Row) (*User, error) {
	user, err := scanUserRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return user, err
}

func scanUserRow(row rowScanner) (*User, error) {
	var user User
	var children, preferred []byte
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password,
		&user.LinkingCode, &children, &user.MobileNumber,
		&user.ResidentialAddress, &user.EducationalBackground,
		&user.OccupationalArea, &user.AnnualEducationBudget, &preferred,
		&user.Notes, &user.Avatar, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(children, &user.Children); err != nil {
		return nil, fmt.Errorf("decode children: %w", err)
	}
	if err := json.Unmarshal(preferred, &user.PreferredFoE); err != nil {
		return nil, fmt.Errorf("decode preferred_foe: %w", err)
	}
	return &user, nil
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

// 23505 is Postgres unique_violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
