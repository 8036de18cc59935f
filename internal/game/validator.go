package game

import (
	"strings"

	"wordscapes/internal/models"
)

// Validator decides whether a candidate string is a legal solution for a
// level. It is a pure value with no side effects.
type Validator struct {
	// Strict enables per-letter count checking: each letter may be used
	// at most as many times as it occurs in the pool. The lenient default
	// only requires every distinct letter of the word to appear somewhere
	// in the pool, so "apple" passes against a pool with a single P.
	Strict bool
}

// IsValid reports whether word is a legal solution for the level: it must
// match an entry in the level's word list (case-insensitive) and its
// letters must be satisfiable from the level's letter pool.
func (v Validator) IsValid(word string, level *models.Level, words []models.LevelWord) bool {
	word = Normalize(word)
	if word == "" || level == nil {
		return false
	}

	inList := false
	for _, lw := range words {
		if Normalize(lw.WordText) == word {
			inList = true
			break
		}
	}
	if !inList {
		return false
	}

	return v.LettersSatisfiable(word, level.GivenLetters)
}

// LettersSatisfiable checks word against the letter pool alone, without
// consulting a word list. Used by the word-check endpoint.
func (v Validator) LettersSatisfiable(word, letters string) bool {
	if v.Strict {
		return lettersWithinCounts(word, letters)
	}
	return distinctLettersInPool(word, letters)
}

// Normalize lower-cases and trims a candidate word
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// distinctLettersInPool checks that every distinct letter of word occurs
// in the pool, ignoring multiplicity.
func distinctLettersInPool(word, letters string) bool {
	pool := make(map[rune]bool, len(letters))
	for _, r := range strings.ToLower(letters) {
		pool[r] = true
	}
	for _, r := range strings.ToLower(word) {
		if !pool[r] {
			return false
		}
	}
	return true
}

// lettersWithinCounts checks that no letter is used more times than the
// pool supplies.
func lettersWithinCounts(word, letters string) bool {
	pool := make(map[rune]int, len(letters))
	for _, r := range strings.ToLower(letters) {
		pool[r]++
	}
	for _, r := range strings.ToLower(word) {
		pool[r]--
		if pool[r] < 0 {
			return false
		}
	}
	return true
}
