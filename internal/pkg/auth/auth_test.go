package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSessionTokens_IssueAndValidate(t *testing.T) {
	tokens := NewSessionTokens(SessionConfig{SecretKey: "secret", TTL: time.Hour, Issuer: "clubhub"})

	issued, err := tokens.Issue(42, "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.SessionID == "" {
		t.Fatal("no session id")
	}

	claims, err := tokens.Validate(issued.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || claims.ID != issued.SessionID {
		t.Errorf("claims = %+v", claims)
	}
}

func TestSessionTokens_Rejects(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens := NewSessionTokens(SessionConfig{SecretKey: "secret", TTL: time.Hour, Issuer: "clubhub"})
	tokens.now = func() time.Time { return now }

	issued, err := tokens.Issue(1, "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewSessionTokens(SessionConfig{SecretKey: "other", TTL: time.Hour, Issuer: "clubhub"})
	other.now = tokens.now
	if _, err := other.Validate(issued.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong key: expected invalid token, got %v", err)
	}

	foreign := NewSessionTokens(SessionConfig{SecretKey: "secret", TTL: time.Hour, Issuer: "someone-else"})
	foreign.now = tokens.now
	if _, err := foreign.Validate(issued.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong issuer: expected invalid token, got %v", err)
	}

	if _, err := tokens.Validate(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty token: expected invalid token, got %v", err)
	}

	tokens.now = func() time.Time { return now.Add(2 * time.Hour) }
	if _, err := tokens.Validate(issued.Token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expired: expected expired token, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cure-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "s3cure-pass") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "S3cure-pass") {
		t.Error("wrong password accepted")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password, username string
		want               error
	}{
		{"short", "alice", ErrPasswordTooShort},
		{"12345678", "alice", ErrPasswordNumeric},
		{"AliceAlice", "alicealice", ErrPasswordLikeUsername},
		{"s3cure-pass", "alice", nil},
	}
	for _, tc := range tests {
		if got := ValidatePassword(tc.password, tc.username); !errors.Is(got, tc.want) {
			t.Errorf("ValidatePassword(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}
