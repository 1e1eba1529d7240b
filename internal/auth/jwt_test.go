package auth

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-at-least-16-chars!!"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestNewTokenService_RejectsShortSecret(t *testing.T) {
	if _, err := NewTokenService("short"); err == nil {
		t.Fatal("NewTokenService() accepted a short secret")
	}
}

func TestGeneratePairAndValidate(t *testing.T) {
	ts := newTestTokenService(t)

	pair, err := ts.GeneratePair("user-123")
	if err != nil {
		t.Fatalf("GeneratePair() error = %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatal("GeneratePair() returned empty token(s)")
	}

	userID, err := ts.Validate(pair.Access, TypeAccess)
	if err != nil {
		t.Fatalf("Validate(access) error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want user-123", userID)
	}

	userID, err = ts.Validate(pair.Refresh, TypeRefresh)
	if err != nil {
		t.Fatalf("Validate(refresh) error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want user-123", userID)
	}
}

func TestValidate_RejectsWrongTokenType(t *testing.T) {
	ts := newTestTokenService(t)

	pair, err := ts.GeneratePair("user-123")
	if err != nil {
		t.Fatalf("GeneratePair() error = %v", err)
	}

	if _, err := ts.Validate(pair.Refresh, TypeAccess); err == nil {
		t.Error("Validate() accepted a refresh token as an access token")
	}
	if _, err := ts.Validate(pair.Access, TypeRefresh); err == nil {
		t.Error("Validate() accepted an access token as a refresh token")
	}
}

func TestValidate_RejectsExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	expired, err := ts.generate("user-123", TypeAccess, -time.Minute)
	if err != nil {
		t.Fatalf("generate() error = %v", err)
	}

	_, err = ts.Validate(expired, TypeAccess)
	if err == nil {
		t.Fatal("Validate() accepted an expired token")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("error = %v, want mention of expiry", err)
	}
}

func TestValidate_RejectsTamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.GenerateAccess("user-123")
	if err != nil {
		t.Fatalf("GenerateAccess() error = %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ts.Validate(tampered, TypeAccess); err == nil {
		t.Error("Validate() accepted a tampered token")
	}
}

func TestValidate_RejectsForeignSecret(t *testing.T) {
	ts := newTestTokenService(t)

	other, err := NewTokenService("another-secret-16-chars-long!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	token, err := other.GenerateAccess("user-123")
	if err != nil {
		t.Fatalf("GenerateAccess() error = %v", err)
	}

	if _, err := ts.Validate(token, TypeAccess); err == nil {
		t.Error("Validate() accepted a token signed with a different secret")
	}
}
