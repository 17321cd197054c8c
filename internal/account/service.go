package account

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Misakaaaaaz/Parent-Portal/internal/auth"
	"github.com/Misakaaaaaz/Parent-Portal/internal/linking"
	"github.com/Misakaaaaaz/Parent-Portal/internal/student"
)

// Notifier delivers out-of-band account notices. Delivery is best-effort;
// the operations themselves never fail on a notification error.
type Notifier interface {
	RegistrationCompleted(ctx context.Context, email, name string) error
	PasswordResetCompleted(ctx context.Context, email, name string) error
}

// Service orchestrates the account lifecycle: registration, sign-in and
// the password state machine. All lookups go through the credential store
// and the linking resolver; nothing here is transactional across calls.
type Service struct {
	users    Repository
	resolver *linking.Resolver
	issuer   *auth.Issuer
	notifier Notifier
}

// NewService wires the account lifecycle.
func NewService(users Repository, resolver *linking.Resolver, issuer *auth.Issuer, notifier Notifier) *Service {
	return &Service{users: users, resolver: resolver, issuer: issuer, notifier: notifier}
}

// ChildRef is the populated child projection embedded in profile responses.
// Sign-in and profile updates carry only id and name; the linking-code
// lookup adds the recent emotion tally.
type ChildRef struct {
	ID            string           `json:"_id"`
	Name          string           `json:"name"`
	RecentEmotion *student.Emotion `json:"recentEmotion,omitempty"`
}

// AuthResponse is what register returns: the minimal identity plus token.
type AuthResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Profile is the full projection returned by sign-in and profile updates.
type Profile struct {
	ID                    string     `json:"_id"`
	Name                  string     `json:"name"`
	Email                 string     `json:"email"`
	LinkingCode           string     `json:"linkingCode"`
	Children              []ChildRef `json:"children"`
	MobileNumber          string     `json:"mobileNumber"`
	ResidentialAddress    string     `json:"residentialAddress"`
	EducationalBackground string     `json:"educationalBackground"`
	OccupationalArea      string     `json:"occupationalArea"`
	AnnualEducationBudget string     `json:"annualEducationBudget"`
	PreferredFoE          []string   `json:"preferredFoE"`
	Notes                 string     `json:"notes"`
	Avatar                string     `json:"avatar"`
	Token                 string     `json:"token,omitempty"`
}

// Register creates a parent account bound to the student carrying the
// linking code. The code is validated before anything is hashed or
// persisted, so an invalid code never leaves an orphaned account behind.
func (s *Service) Register(ctx context.Context, name, email, rawPassword, linkingCode string) (*AuthResponse, error) {
	st, err := s.resolver.ResolveForRegistration(ctx, linkingCode)
	if err != nil {
		if errors.Is(err, linking.ErrInvalidCode) {
			return nil, ErrInvalidLinkingCode
		}
		return nil, err
	}

	hash, err := auth.HashPassword(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, User{
		Name:        name,
		Email:       email,
		Password:    hash,
		LinkingCode: linkingCode,
		Children:    []string{st.ID},
	})
	if err != nil {
		return nil, err
	}

	// A crash between create and attach leaves the account without a
	// recorded parent reference on the student; there is no compensating
	// transaction for that window.
	if err := s.resolver.Attach(ctx, st.ID, created.ID); err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(subject(created))
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.RegistrationCompleted(ctx, created.Email, created.Name); err != nil {
			log.Printf("registration notice for %s not queued: %v", created.Email, err)
		}
	}

	return &AuthResponse{Name: created.Name, Email: created.Email, Token: token}, nil
}

// SignIn verifies the credentials and returns the full profile with a
// fresh token. Unknown email and wrong password are indistinguishable.
func (s *Service) SignIn(ctx context.Context, email, rawPassword string) (*Profile, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, rawPassword) {
		return nil, ErrInvalidCredentials
	}
	return s.profileWithToken(ctx, user)
}

// ChangePassword replaces the hash after re-verifying the old password.
// The caller is expected to hold a verified session already.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidOldPassword
		}
		return err
	}
	if !auth.CheckPassword(user.Password, oldPassword) {
		return ErrInvalidOldPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash
	_, err = s.users.Save(ctx, *user)
	return err
}

// ResetPassword overwrites the hash for the account matching the email,
// without any old-password check. Ownership proof happens out-of-band:
// the queued notification email is the only control closing that gap.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash
	if _, err := s.users.Save(ctx, *user); err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.PasswordResetCompleted(ctx, user.Email, user.Name); err != nil {
			log.Printf("password reset notice for %s not queued: %v", user.Email, err)
		}
	}
	return nil
}

// ProfileUpdate carries the optional fields of a partial profile update.
// Empty fields keep their prior value.
type ProfileUpdate struct {
	Name                  string `json:"name"`
	Email                 string `json:"email"`
	Password              string `json:"password"`
	MobileNumber          string `json:"mobileNumber"`
	ResidentialAddress    string `json:"residentialAddress"`
	EducationalBackground string `json:"educationalBackground"`
	OccupationalArea      string `json:"occupationalArea"`
	AnnualEducationBudget string `json:"annualEducationBudget"`
	Notes                 string `json:"notes"`
	Avatar                string `json:"avatar"`
}

// UpdateProfile applies the non-empty fields, re-hashes the password when
// one is supplied, and re-issues the token since name or email may have
// changed under the old one.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	apply(&user.Name, upd.Name)
	apply(&user.Email, upd.Email)
	apply(&user.MobileNumber, upd.MobileNumber)
	apply(&user.ResidentialAddress, upd.ResidentialAddress)
	apply(&user.EducationalBackground, upd.EducationalBackground)
	apply(&user.OccupationalArea, upd.OccupationalArea)
	apply(&user.AnnualEducationBudget, upd.AnnualEducationBudget)
	apply(&user.Notes, upd.Notes)
	apply(&user.Avatar, upd.Avatar)

	if upd.Password != "" {
		hash, err := auth.HashPassword(upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = hash
	}

	saved, err := s.users.Save(ctx, *user)
	if err != nil {
		return nil, err
	}
	return s.profileWithToken(ctx, saved)
}

// Get returns the stored user by id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.users.FindByID(ctx, id)
}

// List returns every user; administrative/seed use only.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.users.ListAll(ctx)
}

// FindByLinkingCode returns the user carrying the code with children
// populated. Stale child references are silently absent from the result.
func (s *Service) FindByLinkingCode(ctx context.Context, code string) (*Profile, error) {
	user, err := s.users.FindByLinkingCode(ctx, code)
	if err != nil {
		return nil, err
	}
	profile, err := s.profile(ctx, user, true)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Service) profileWithToken(ctx context.Context, user *User) (*Profile, error) {
	profile, err := s.profile(ctx, user, false)
	if err != nil {
		return nil, err
	}
	token, err := s.issuer.Issue(subject(user))
	if err != nil {
		return nil, err
	}
	profile.Token = token
	return profile, nil
}

func (s *Service) profile(ctx context.Context, user *User, withEmotions bool) (*Profile, error) {
	children, err := s.resolver.ChildrenFor(ctx, user.Children)
	if err != nil {
		return nil, err
	}
	refs := make([]ChildRef, 0, len(children))
	for _, c := range children {
		ref := ChildRef{ID: c.ID, Name: c.Name}
		if withEmotions {
			emotion := c.RecentEmotion
			ref.RecentEmotion = &emotion
		}
		refs = append(refs, ref)
	}
	return &Profile{
		ID:                    user.ID,
		Name:                  user.Name,
		Email:                 user.Email,
		LinkingCode:           user.LinkingCode,
		Children:              refs,
		MobileNumber:          user.MobileNumber,
		ResidentialAddress:    user.ResidentialAddress,
		EducationalBackground: user.EducationalBackground,
		OccupationalArea:      user.OccupationalArea,
		AnnualEducationBudget: user.AnnualEducationBudget,
		PreferredFoE:          user.PreferredFoE,
		Notes:                 user.Notes,
		Avatar:                user.Avatar,
	}, nil
}

func apply(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

func subject(user *User) auth.Subject {
	return auth.Subject{ID: user.ID, Name: user.Name, Email: user.Email}
}
