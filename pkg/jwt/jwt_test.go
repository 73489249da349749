package jwt

import (
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("42", "alice", "user", AccessToken, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	claims, err := ValidateToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if claims.UserID != "42" {
		t.Errorf("expected user ID 42, got %q", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("expected username alice, got %q", claims.Username)
	}
	if claims.Role != "user" {
		t.Errorf("expected role user, got %q", claims.Role)
	}
	if claims.TokenType != AccessToken {
		t.Errorf("expected access token, got %q", claims.TokenType)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("42", "alice", "user", AccessToken, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := ValidateToken(token, "other-secret"); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken("42", "alice", "user", AccessToken, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := ValidateToken(token, testSecret); err == nil {
		t.Error("expected validation to fail for an expired token")
	}
}

func TestIsTokenValid(t *testing.T) {
	refresh, err := GenerateToken("42", "alice", "user", RefreshToken, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if !IsTokenValid(refresh, testSecret, RefreshToken) {
		t.Error("expected refresh token to be valid as refresh")
	}
	if IsTokenValid(refresh, testSecret, AccessToken) {
		t.Error("expected refresh token to be invalid as access")
	}
	if IsTokenValid("not-a-token", testSecret, AccessToken) {
		t.Error("expected garbage to be invalid")
	}
}
