package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret")

	token, err := issuer.Issue(Subject{ID: "u-1", Name: "Ann", Email: "ann@x.com"})
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if claims.ID != "u-1" || claims.Name != "Ann" || claims.Email != "ann@x.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	want := time.Now().Add(30 * 24 * time.Hour)
	got := claims.ExpiresAt.Time
	if got.Before(want.Add(-5*time.Second)) || got.After(want.Add(5*time.Second)) {
		t.Fatalf("expiry %v not within 5s of %v", got, want)
	}
}

func TestIssueRequiresNameOrEmail(t *testing.T) {
	issuer := NewIssuer("test-secret")

	if _, err := issuer.Issue(Subject{ID: "u-1"}); !errors.Is(err, ErrInvalidSubject) {
		t.Fatalf("expected ErrInvalidSubject, got %v", err)
	}
	if _, err := issuer.Issue(Subject{ID: "u-1", Name: "Ann"}); err != nil {
		t.Fatalf("name alone should be enough: %v", err)
	}
	if _, err := issuer.Issue(Subject{ID: "u-1", Email: "ann@x.com"}); err != nil {
		t.Fatalf("email alone should be enough: %v", err)
	}
}

func TestIssueRequiresSecret(t *testing.T) {
	issuer := NewIssuer("")
	if _, err := issuer.Issue(Subject{ID: "u-1", Name: "Ann"}); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewIssuer("secret-a").Issue(Subject{ID: "u-1", Name: "Ann"})
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	_, err = NewIssuer("secret-b").Verify(token)
	var invalid *InvalidTokenError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTokenError, got %v", err)
	}
	if invalid.Reason != ReasonSignature {
		t.Fatalf("expected signature reason, got %s", invalid.Reason)
	}
}

func TestVerifyExpired(t *testing.T) {
	secret := "test-secret"
	claims := Claims{
		ID:    "u-1",
		Name:  "Ann",
		Email: "ann@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	_, err = NewIssuer(secret).Verify(token)
	var invalid *InvalidTokenError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTokenError, got %v", err)
	}
	if invalid.Reason != ReasonExpired {
		t.Fatalf("expected expired reason, got %s", invalid.Reason)
	}
}

func TestVerifyMalformed(t *testing.T) {
	_, err := NewIssuer("test-secret").Verify("not-a-token")
	var invalid *InvalidTokenError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTokenError, got %v", err)
	}
	if invalid.Reason != ReasonMalformed {
		t.Fatalf("expected malformed reason, got %s", invalid.Reason)
	}
}

func TestBearerToken(t *testing.T) {
	if tok, ok := BearerToken("Bearer abc.def.ghi"); !ok || tok != "abc.def.ghi" {
		t.Fatalf("expected token, got %q ok=%v", tok, ok)
	}
	if tok, ok := BearerToken("bearer abc"); !ok || tok != "abc" {
		t.Fatalf("lowercase scheme should work, got %q ok=%v", tok, ok)
	}
	if _, ok := BearerToken(""); ok {
		t.Fatal("empty header should not parse")
	}
	if _, ok := BearerToken("Basic abc"); ok {
		t.Fatal("non-bearer scheme should not parse")
	}
}
