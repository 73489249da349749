package validation

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"simple", "user@example.com", true},
		{"plus tag", "user+tag@example.com", true},
		{"dotted local part", "first.last@sub-domain.example.org", true},
		{"surrounding whitespace", "  user@example.com  ", true},
		{"missing at", "userexample.com", false},
		{"missing domain dot", "user@example", false},
		{"empty", "", false},
		{"space in local part", "us er@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateEmail(tt.email); got != tt.want {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{"alphanumeric", "alice42", true},
		{"underscore and dash", "alice_b-c", true},
		{"single char", "a", true},
		{"empty", "", false},
		{"too long", strings.Repeat("a", 31), false},
		{"space", "alice b", false},
		{"symbols", "alice!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateUsername(tt.username); got != tt.want {
				t.Errorf("ValidateUsername(%q) = %v, want %v", tt.username, got, tt.want)
			}
		})
	}
}

func TestRequireAll(t *testing.T) {
	if !RequireAll("a", "b", "c") {
		t.Error("expected all non-empty fields to pass")
	}
	if RequireAll("a", "", "c") {
		t.Error("expected empty field to fail")
	}
	if RequireAll("a", "   ", "c") {
		t.Error("expected whitespace-only field to fail")
	}
	if !RequireAll() {
		t.Error("expected no fields to pass")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  alice  "); got != "alice" {
		t.Errorf("expected trimmed string, got %q", got)
	}
	if got := SanitizeString("ali\x00ce"); got != "alice" {
		t.Errorf("expected null bytes removed, got %q", got)
	}
}
