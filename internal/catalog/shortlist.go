package catalog

import (
	"context"
	"errors"

	"github.com/Misakaaaaaz/Parent-Portal/internal/student"
)

// PopulatedShortlist is one institution with the shortlisted courses
// expanded from their id references.
type PopulatedShortlist struct {
	Institution Institution `json:"institution"`
	Courses     []Course    `json:"courses"`
}

// Service expands shortlist id references against the catalog.
type Service struct {
	repo Repository
}

// NewService creates a service over the catalog.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Populate resolves every shortlist entry. Entries whose institution no
// longer exists are dropped; missing courses are dropped from their entry.
func (s *Service) Populate(ctx context.Context, shortlists []student.Shortlist) ([]PopulatedShortlist, error) {
	out := make([]PopulatedShortlist, 0, len(shortlists))
	for _, sl := range shortlists {
		inst, err := s.repo.FindInstitution(ctx, sl.Institution)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		populated := PopulatedShortlist{Institution: *inst, Courses: make([]Course, 0, len(sl.Courses))}
		for _, courseID := range sl.Courses {
			course, err := s.repo.FindCourse(ctx, courseID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return nil, err
			}
			populated.Courses = append(populated.Courses, *course)
		}
		out = append(out, populated)
	}
	return out, nil
}
