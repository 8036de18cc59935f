package models

import (
	"testing"
	"time"
)

func TestProgressHasFound(t *testing.T) {
	progress := &Progress{FoundWords: []string{"cat", "stone"}}

	tests := []struct {
		name string
		word string
		want bool
	}{
		{"exact match", "cat", true},
		{"case folded", "CAT", true},
		{"mixed case", "StOnE", true},
		{"not found", "cats", false},
		{"empty word", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := progress.HasFound(tt.word); got != tt.want {
				t.Errorf("HasFound(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestProgressHasFoundEmptyList(t *testing.T) {
	progress := &Progress{}
	if progress.HasFound("cat") {
		t.Error("HasFound on empty progress should be false")
	}
}

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"future expiry", time.Now().Add(time.Hour), false},
		{"past expiry", time.Now().Add(-time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{ExpiresAt: tt.expiresAt}
			if got := s.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}
