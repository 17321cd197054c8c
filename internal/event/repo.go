// Package event serves the calendar events shown on the dashboard.
package event

import (
	"context"
	"database/sql"
	"time"
)

// Event is a calendar entry optionally tied to one student.
type Event struct {
	ID        string     `json:"_id"`
	StudentID string     `json:"-"`
	EventName string     `json:"eventName"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	EventType string     `json:"eventType"`
	Location  string     `json:"location"`
}

// Repository reads events from Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns events, optionally filtered to one student.
func (r *Repository) List(ctx context.Context, studentID string) ([]Event, error) {
	query := `SELECT id, student_id, event_name, start_date, end_date, event_type, location
		FROM events`
	args := []any{}
	if studentID != "" {
		query += ` WHERE student_id = $1`
		args = append(args, studentID)
	}
	query += ` ORDER BY start_date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var evt Event
		if err := rows.Scan(&evt.ID, &evt.StudentID, &evt.EventName,
			&evt.StartDate, &evt.EndDate, &evt.EventType, &evt.Location); err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	return events, rows.Err()
}
