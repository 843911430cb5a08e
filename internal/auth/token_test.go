package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fkhayef/attendly/internal/user"
)

func testUser() *user.User {
	return &user.User{
		ID:       42,
		Username: "aisha",
		Email:    "aisha@example.com",
		Role:     user.RoleAdmin,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	claims, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("claims.UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "aisha@example.com" {
		t.Errorf("claims.Email = %q, want %q", claims.Email, "aisha@example.com")
	}
	if claims.Role != user.RoleAdmin {
		t.Errorf("claims.Role = %q, want %q", claims.Role, user.RoleAdmin)
	}
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := tm.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenRejected(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	goodToken, err := tm.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	otherSecret, err := NewTokenManager("other-secret", time.Hour).Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Same secret but HS384, which the parser does not accept
	wrongMethod := jwt.NewWithClaims(jwt.SigningMethodHS384, &Claims{UserID: 42})
	wrongMethodToken, err := wrongMethod.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not.a.jwt"},
		{"tampered token", goodToken + "x"},
		{"wrong secret", otherSecret},
		{"wrong signing method", wrongMethodToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tm.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", tt.token, err)
			}
		})
	}
}
