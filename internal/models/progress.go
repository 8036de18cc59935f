package models

import (
	"strings"
	"time"
)

// Progress is the durable per-(user, level) game record. FoundWords and
// RevealedHints are stored as JSON text columns in the database.
type Progress struct {
	ID            int64
	UserID        int64
	LevelID       int64
	FoundWords    []string
	HintsUsed     int
	HintsReceived int
	LevelScore    int
	TotalScore    int // aggregate across all levels, filled by the service
	RevealedHints map[string][]int
	StartTime     time.Time
	LastPlayed    time.Time
}

// HasFound reports whether the word is already in FoundWords (case-insensitive)
func (p *Progress) HasFound(word string) bool {
	for _, w := range p.FoundWords {
		if strings.EqualFold(w, word) {
			return true
		}
	}
	return false
}

// LeaderboardEntry is one ranked row of a level's leaderboard
type LeaderboardEntry struct {
	Rank     int
	UserID   int64
	UserName string
	LevelID  int64
	Score    int
}
