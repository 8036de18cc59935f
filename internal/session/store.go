package session

import (
	"math/rand"
	"sync"
	"time"

	"wordscapes/internal/game"
)

// State is the transient per-user game state: a seeded random source plus
// memoized hint assignments and letter shuffles. It is an optimization
// layer only; found words and scores live in the durable store.
type State struct {
	UserID int64
	Seed   int64

	mu        sync.Mutex
	rng       *rand.Rand
	hints     map[int64]map[string][]int // level id -> word -> revealed positions
	shuffles  map[int64]string           // level id -> shuffled letter pool
	lastTouch time.Time
}

// HintsFor returns the pre-revealed positions for a word, generating them
// on first access. Once generated the same positions are returned for the
// rest of the session; concurrent callers observe the first writer's set.
func (s *State) HintsFor(levelID int64, word string, totalWords int) []int {
	word = game.Normalize(word)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouch = time.Now()

	byWord, ok := s.hints[levelID]
	if !ok {
		byWord = make(map[string][]int)
		s.hints[levelID] = byWord
	}
	if positions, ok := byWord[word]; ok {
		return positions
	}

	positions := game.AssignHints(s.rng, word, totalWords)
	byWord[word] = positions
	return positions
}

// ShuffledLetters returns the session's letter arrangement for a level,
// shuffling once and memoizing.
func (s *State) ShuffledLetters(levelID int64, letters string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouch = time.Now()

	if shuffled, ok := s.shuffles[levelID]; ok {
		return shuffled
	}

	shuffled := game.ShuffleLetters(s.rng, letters)
	s.shuffles[levelID] = shuffled
	return shuffled
}

// Store holds transient game state keyed by user id. States are created on
// first touch and evicted on idle timeout or explicit clear.
type Store struct {
	mu     sync.RWMutex
	states map[int64]*State
	seed   func() int64
}

// NewStore creates a session store seeding each state from the clock
func NewStore() *Store {
	return &Store{
		states: make(map[int64]*State),
		seed:   func() int64 { return time.Now().UnixNano() },
	}
}

// NewStoreWithSeed creates a session store with a fixed seed source, so
// hint generation and shuffles are reproducible in tests.
func NewStoreWithSeed(seed int64) *Store {
	return &Store{
		states: make(map[int64]*State),
		seed:   func() int64 { return seed },
	}
}

// Get returns the state for a user, creating it on first touch
func (st *Store) Get(userID int64) *State {
	st.mu.RLock()
	s, ok := st.states[userID]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.states[userID]; ok {
		return s
	}

	seed := st.seed()
	s = &State{
		UserID:    userID,
		Seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
		hints:     make(map[int64]map[string][]int),
		shuffles:  make(map[int64]string),
		lastTouch: time.Now(),
	}
	st.states[userID] = s
	return s
}

// Clear purges a user's transient state, forcing the next access to
// repopulate from the durable store.
func (st *Store) Clear(userID int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.states, userID)
}

// Evict removes states idle for longer than the given duration. Called
// periodically from a background goroutine.
func (st *Store) Evict(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	st.mu.Lock()
	defer st.mu.Unlock()

	evicted := 0
	for userID, s := range st.states {
		s.mu.Lock()
		stale := s.lastTouch.Before(cutoff)
		s.mu.Unlock()
		if stale {
			delete(st.states, userID)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of live states
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.states)
}
