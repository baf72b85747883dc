package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"collabhub/internal/common"
)

func TestIssueAndParse(t *testing.T) {
	provider := NewJWTProvider("secret", "collabhub")
	userID := common.NewUUID()
	token, expiresAt, err := provider.Issue(userID, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected expiry in the future, got %s", expiresAt)
	}
	claims, err := provider.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Principal() != string(userID) {
		t.Fatalf("expected subject %s, got %s", userID, claims.Principal())
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := NewJWTProvider("secret", "").Issue(common.NewUUID(), time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewJWTProvider("other", "").Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	provider := NewJWTProvider("secret", "")
	provider.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := provider.Issue(common.NewUUID(), time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	provider.now = time.Now
	if _, err := provider.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{"sub": "user", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewJWTProvider("secret", "").Parse(token); err == nil {
		t.Fatal("expected HS512 token to be rejected")
	}
}

func TestParseAcceptsSubjectOnlyTokens(t *testing.T) {
	claims := jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	parsed, err := NewJWTProvider("secret", "").Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Principal() != "user-1" {
		t.Fatalf("expected user-1, got %s", parsed.Principal())
	}
}
