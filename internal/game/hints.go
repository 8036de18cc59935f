package game

import (
	"math/rand"
	"sort"
)

// HintCount returns how many letter positions are pre-revealed per word,
// sized by the level's word-list length.
func HintCount(totalWords int) int {
	switch {
	case totalWords < 6:
		return 1
	case totalWords < 12:
		return 2
	default:
		return 3
	}
}

// AssignHints draws distinct positions uniformly without replacement from
// [0, len(word)), position 0 included. The count never exceeds the word
// length. Callers memoize the result per session so a word's hints stay
// stable; rng is the session's seeded source.
func AssignHints(rng *rand.Rand, word string, totalWords int) []int {
	length := len([]rune(word))
	if length == 0 {
		return nil
	}

	n := HintCount(totalWords)
	if n > length {
		n = length
	}

	positions := append([]int(nil), rng.Perm(length)[:n]...)
	sort.Ints(positions)
	return positions
}

// ShuffleLetters returns a random permutation of the letter pool. Used for
// the per-session letter wheel arrangement.
func ShuffleLetters(rng *rand.Rand, letters string) string {
	runes := []rune(letters)
	rng.Shuffle(len(runes), func(i, j int) {
		runes[i], runes[j] = runes[j], runes[i]
	})
	return string(runes)
}
