package models

import "time"

// Level represents a single puzzle: a pool of letters and a fixed set of
// target words. Immutable once created.
type Level struct {
	ID           int64
	LevelNumber  int
	GivenLetters string
	Difficulty   int // 1-5 scale
	CreatedAt    time.Time
}

// LevelWord is one target word belonging to a level
type LevelWord struct {
	ID       int64
	LevelID  int64
	WordText string
}

// LevelStatus combines a level with a user's standing on it
type LevelStatus struct {
	Level      Level
	Completed  bool
	Unlocked   bool
	WordsFound int
	WordsTotal int
}
