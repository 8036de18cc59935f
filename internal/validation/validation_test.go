package validation

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "player@example.com", false},
		{"valid with plus", "player+tag@example.com", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"missing domain", "player@", true},
		{"missing at sign", "player.example.com", true},
		{"missing tld", "player@example", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "secret-pass-123", false},
		{"exactly eight", "12345678", false},
		{"empty", "", true},
		{"too short", "1234567", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid name", "Player", false},
		{"two characters", "Jo", false},
		{"empty", "", true},
		{"whitespace only", "  ", true},
		{"single character", "J", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateWord(t *testing.T) {
	tests := []struct {
		name    string
		word    string
		wantErr bool
	}{
		{"valid word", "cat", false},
		{"uppercase", "CATS", false},
		{"accented letters", "café", false},
		{"surrounding whitespace", "  cat  ", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"digits", "c4t", true},
		{"hyphenated", "well-known", true},
		{"embedded space", "two words", true},
		{"too long", strings.Repeat("a", 33), true},
		{"at the length limit", strings.Repeat("a", 32), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWord(tt.word)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWord(%q) error = %v, wantErr %v", tt.word, err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{Field: "word", Message: "word is required"}
	if got := err.Error(); got != "word: word is required" {
		t.Errorf("Error() = %q, want %q", got, "word: word is required")
	}
}
