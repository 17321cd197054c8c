// Package linking bridges parent accounts and student records via the
// shared linking code.
package linking

import (
	"context"
	"errors"

	"github.com/Misakaaaaaz/Parent-Portal/internal/student"
)

// ErrInvalidCode means no student carries the presented linking code.
var ErrInvalidCode = errors.New("invalid linking code")

// Resolver resolves linking codes against the student directory.
type Resolver struct {
	students student.Repository
}

// NewResolver creates a resolver over the student directory.
func NewResolver(students student.Repository) *Resolver {
	return &Resolver{students: students}
}

// ResolveForRegistration is the only validation gate before a new account
// is created: no matching student means registration must not proceed.
func (r *Resolver) ResolveForRegistration(ctx context.Context, code string) (*student.Student, error) {
	s, err := r.students.FindByLinkingCode(ctx, code)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}
	return s, nil
}

// Attach records the user as a parent of the student. Not idempotent:
// calling twice appends the reference twice.
func (r *Resolver) Attach(ctx context.Context, studentID, userID string) error {
	return r.students.AddParent(ctx, studentID, userID)
}

// ChildrenFor resolves each child reference to its student record.
// References that no longer resolve are dropped, never surfaced as errors.
func (r *Resolver) ChildrenFor(ctx context.Context, childIDs []string) ([]student.Student, error) {
	children := make([]student.Student, 0, len(childIDs))
	for _, id := range childIDs {
		s, err := r.students.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, student.ErrNotFound) {
				continue
			}
			return nil, err
		}
		children = append(children, *s)
	}
	return children, nil
}
