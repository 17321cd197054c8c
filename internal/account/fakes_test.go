package account_test

import (
	"context"
	"fmt"

	"github.com/Misakaaaaaz/Parent-Portal/internal/account"
	"github.com/Misakaaaaaz/Parent-Portal/internal/student"
)

// memUsers is an in-memory credential store for tests.
type memUsers struct {
	users  []account.User
	nextID int
}

var _ account.Repository = (*memUsers)(nil)

func (m *memUsers) FindByEmail(_ context.Context, email string) (*account.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, account.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*account.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, account.ErrNotFound
}

func (m *memUsers) FindByLinkingCode(_ context.Context, code string) (*account.User, error) {
	for i := range m.users {
		if m.users[i].LinkingCode == code {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, account.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, user account.User) (*account.User, error) {
	for i := range m.users {
		if m.users[i].Email == user.Email {
			return nil, account.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		m.nextID++
		user.ID = fmt.Sprintf("user-%d", m.nextID)
	}
	m.users = append(m.users, user)
	return &user, nil
}

func (m *memUsers) Save(_ context.Context, user account.User) (*account.User, error) {
	for i := range m.users {
		if m.users[i].ID == user.ID {
			m.users[i] = user
			return &user, nil
		}
	}
	return nil, account.ErrNotFound
}

func (m *memUsers) ListAll(_ context.Context) ([]account.User, error) {
	out := make([]account.User, len(m.users))
	copy(out, m.users)
	return out, nil
}

// memStudents is an in-memory student directory for tests.
type memStudents struct {
	students []student.Student
}

var _ student.Repository = (*memStudents)(nil)

func (m *memStudents) FindByLinkingCode(_ context.Context, code string) (*student.Student, error) {
	for i := range m.students {
		if m.students[i].LinkingCode == code {
			s := m.students[i]
			return &s, nil
		}
	}
	return nil, student.ErrNotFound
}

func (m *memStudents) FindByID(_ context.Context, id string) (*student.Student, error) {
	for i := range m.students {
		if m.students[i].ID == id {
			s := m.students[i]
			return &s, nil
		}
	}
	return nil, student.ErrNotFound
}

func (m *memStudents) AddParent(_ context.Context, studentID, userID string) error {
	for i := range m.students {
		if m.students[i].ID == studentID {
			m.students[i].Parents = append(m.students[i].Parents, userID)
			return nil
		}
	}
	return student.ErrNotFound
}

func (m *memStudents) List(_ context.Context) ([]student.Student, error) {
	out := make([]student.Student, len(m.students))
	copy(out, m.students)
	return out, nil
}

func (m *memStudents) Create(_ context.Context, s student.Student) (*student.Student, error) {
	m.students = append(m.students, s)
	return &s, nil
}

// memNotifier records queued notices.
type memNotifier struct {
	registrations []string
	resets        []string
}

func (m *memNotifier) RegistrationCompleted(_ context.Context, email, _ string) error {
	m.registrations = append(m.registrations, email)
	return nil
}

func (m *memNotifier) PasswordResetCompleted(_ context.Context, email, _ string) error {
	m.resets = append(m.resets, email)
	return nil
}
