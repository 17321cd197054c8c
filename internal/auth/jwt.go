package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sessions are valid for 30 days from issuance; not configurable per call.
const tokenTTL = 30 * 24 * time.Hour

var (
	// ErrNoSecret means the issuer was built without a signing secret.
	ErrNoSecret = errors.New("auth: signing secret is not configured")
	// ErrInvalidSubject means the subject carries neither a name nor an email.
	ErrInvalidSubject = errors.New("auth: subject must have at least a name or an email")
)

// Subject is the identity a session token is issued for. Only these three
// fields ever enter the token; everything else about a user stays server-side.
type Subject struct {
	ID    string
	Name  string
	Email string
}

// Claims represents the JWT payload.
type Claims struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Reason classifies why a token failed verification.
type Reason string

const (
	ReasonMalformed Reason = "malformed"
	ReasonExpired   Reason = "expired"
	ReasonSignature Reason = "signature mismatch"
)

// InvalidTokenError is returned by Verify for any bad token. Expired tokens
// are a classified failure, not a panic or a special case for callers.
type InvalidTokenError struct {
	Reason Reason
	Err    error
}

func (e *InvalidTokenError) Error() string {
	return "auth: invalid token: " + string(e.Reason)
}

func (e *InvalidTokenError) Unwrap() error { return e.Err }

// Issuer signs and verifies stateless session tokens with an HS256 secret.
type Issuer struct {
	secret []byte
}

// NewIssuer creates an issuer around the process-wide signing secret.
func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// Issue signs a 30-day token for the subject.
func (i *Issuer) Issue(sub Subject) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrNoSecret
	}
	if sub.Name == "" && sub.Email == "" {
		return "", ErrInvalidSubject
	}

	now := time.Now()
	claims := Claims{
		ID:    sub.ID,
		Name:  sub.Name,
		Email: sub.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks signature and expiry and returns the decoded claims.
// Failures come back as *InvalidTokenError carrying the reason.
func (i *Issuer) Verify(tokenStr string) (Claims, error) {
	if len(i.secret) == 0 {
		return Claims{}, ErrNoSecret
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		return Claims{}, &InvalidTokenError{Reason: classify(err), Err: err}
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, &InvalidTokenError{Reason: ReasonMalformed}
	}
	return *claims, nil
}

func classify(err error) Reason {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return ReasonSignature
	default:
		return ReasonMalformed
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(authz string) (string, bool) {
	if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return "", false
	}
	return strings.TrimSpace(authz[len("bearer "):]), true
}
