package service

import (
	"errors"
	"fmt"

	"wordscapes/internal/game"
	"wordscapes/internal/models"
	"wordscapes/internal/repository"
	"wordscapes/internal/session"
)

var (
	ErrLevelNotFound    = errors.New("level not found")
	ErrNoLevels         = errors.New("no levels available")
	ErrInvalidWord      = errors.New("word is not valid for this level")
	ErrWordAlreadyFound = errors.New("word already found")
	ErrHintsExhausted   = errors.New("no hints remaining")
	ErrLevelLocked      = errors.New("previous level not completed")
	ErrWordNotInLevel   = errors.New("word is not part of this level")
	ErrInvalidPosition  = errors.New("position is out of range for the word")
)

// GameService orchestrates a play session: it validates submitted words
// against the level catalog, mutates the durable progress store, gates
// level advancement, and answers progress and leaderboard queries. The
// transient session store is an optimization layer; the database is
// authoritative for found words and scores.
type GameService struct {
	levelRepo     *repository.LevelRepository
	progressRepo  *repository.ProgressRepository
	sessions      *session.Store
	validator     game.Validator
	pointsPerWord int
	hintGrant     int
}

// NewGameService creates a new game service
func NewGameService(
	levelRepo *repository.LevelRepository,
	progressRepo *repository.ProgressRepository,
	sessions *session.Store,
	validator game.Validator,
	pointsPerWord, hintGrant int,
) *GameService {
	return &GameService{
		levelRepo:     levelRepo,
		progressRepo:  progressRepo,
		sessions:      sessions,
		validator:     validator,
		pointsPerWord: pointsPerWord,
		hintGrant:     hintGrant,
	}
}

// CheckResult is the outcome of a successful word submission
type CheckResult struct {
	Word              string
	Score             int // total across all levels
	CurrentLevelScore int
	FoundWords        []string
	LevelCompleted    bool
}

// GameData is the full progress snapshot returned for a (user, level) pair
type GameData struct {
	Level           *models.Level
	Progress        *models.Progress
	WordsTotal      int
	ShuffledLetters string
	HintAssignments map[string][]int // auto-revealed positions for unfound words
}

// HintBudget reports the player-requested hint resource after a hint use
type HintBudget struct {
	HintsUsed      int
	HintsAvailable int
	RevealedHints  map[string][]int
}

// loadLevel fetches a level and its word list, mapping a missing row to
// ErrLevelNotFound.
func (s *GameService) loadLevel(levelID int64) (*models.Level, []models.LevelWord, error) {
	level, err := s.levelRepo.GetLevelByID(levelID)
	if err != nil {
		return nil, nil, err
	}
	if level == nil {
		return nil, nil, ErrLevelNotFound
	}

	words, err := s.levelRepo.GetLevelWords(levelID)
	if err != nil {
		return nil, nil, err
	}

	return level, words, nil
}

// AddFoundWord validates a submission and records it. Returns
// ErrInvalidWord when the word fails validation, ErrWordAlreadyFound when
// it was found before (score unchanged), and the updated snapshot on
// success. The add and score bump happen in one transaction.
func (s *GameService) AddFoundWord(userID, levelID int64, word string) (*CheckResult, error) {
	level, words, err := s.loadLevel(levelID)
	if err != nil {
		return nil, err
	}

	if !s.validator.IsValid(word, level, words) {
		return nil, ErrInvalidWord
	}

	normalized := game.Normalize(word)
	progress, added, err := s.progressRepo.AddFoundWord(userID, levelID, normalized, s.pointsPerWord, s.hintGrant)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, ErrWordAlreadyFound
	}

	total, err := s.progressRepo.GetUserTotalScore(userID)
	if err != nil {
		return nil, err
	}

	return &CheckResult{
		Word:              normalized,
		Score:             total,
		CurrentLevelScore: progress.LevelScore,
		FoundWords:        progress.FoundWords,
		LevelCompleted:    coversWordList(progress.FoundWords, words),
	}, nil
}

// GetGameData returns the full record for a (user, level) pair, creating
// a zero-valued row on first access. Hint assignments for unfound words
// are drawn from the session cache, generated lazily on first access to
// the level within the session.
func (s *GameService) GetGameData(userID, levelID int64) (*GameData, error) {
	level, words, err := s.loadLevel(levelID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.EnsureProgress(userID, levelID, s.hintGrant)
	if err != nil {
		return nil, err
	}

	total, err := s.progressRepo.GetUserTotalScore(userID)
	if err != nil {
		return nil, err
	}
	progress.TotalScore = total

	state := s.sessions.Get(userID)
	assignments := make(map[string][]int)
	for _, w := range words {
		normalized := game.Normalize(w.WordText)
		if progress.HasFound(normalized) {
			continue
		}
		assignments[normalized] = state.HintsFor(levelID, normalized, len(words))
	}

	return &GameData{
		Level:           level,
		Progress:        progress,
		WordsTotal:      len(words),
		ShuffledLetters: state.ShuffledLetters(levelID, level.GivenLetters),
		HintAssignments: assignments,
	}, nil
}

// IsLevelCompleted reports whether the user's found words cover the
// level's full word list (case-insensitive).
func (s *GameService) IsLevelCompleted(userID, levelID int64) (bool, error) {
	words, err := s.levelRepo.GetLevelWords(levelID)
	if err != nil {
		return false, err
	}
	if len(words) == 0 {
		return false, nil
	}

	progress, err := s.progressRepo.GetProgress(userID, levelID)
	if err != nil {
		return false, err
	}
	if progress == nil {
		return false, nil
	}

	return coversWordList(progress.FoundWords, words), nil
}

// CanAdvanceTo enforces sequential unlocking: level 1 is always
// reachable, level N+1 only once level N is complete.
func (s *GameService) CanAdvanceTo(userID int64, levelNumber int) (bool, error) {
	if levelNumber == 1 {
		return true, nil
	}
	if levelNumber < 1 {
		return false, nil
	}

	previous, err := s.levelRepo.GetLevelByNumber(levelNumber - 1)
	if err != nil {
		return false, err
	}
	if previous == nil {
		return false, nil
	}

	return s.IsLevelCompleted(userID, previous.ID)
}

// ResolveLevelNumber maps a requested level number onto the catalog:
// numbers past the end resolve to the last level, zero/negative and
// unknown numbers resolve to the first level.
func (s *GameService) ResolveLevelNumber(number int) (*models.Level, error) {
	count, err := s.levelRepo.CountLevels()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoLevels
	}

	if number > count {
		number = count
	}
	if number < 1 {
		number = 1
	}

	level, err := s.levelRepo.GetLevelByNumber(number)
	if err != nil {
		return nil, err
	}
	if level == nil {
		// Sparse numbering; fall back to the first level
		level, err = s.levelRepo.GetLevelByNumber(1)
		if err != nil {
			return nil, err
		}
		if level == nil {
			return nil, ErrLevelNotFound
		}
	}

	return level, nil
}

// SaveCurrentLevel persists which level the user is on after a gate
// check. Advancing past an uncompleted level returns ErrLevelLocked
// with no state change.
func (s *GameService) SaveCurrentLevel(userID int64, levelNumber int) (*models.Level, error) {
	level, err := s.ResolveLevelNumber(levelNumber)
	if err != nil {
		return nil, err
	}

	ok, err := s.CanAdvanceTo(userID, level.LevelNumber)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLevelLocked
	}

	if err := s.progressRepo.SetCurrentLevel(userID, level.ID); err != nil {
		return nil, fmt.Errorf("failed to save current level: %w", err)
	}

	return level, nil
}

// UseHint consumes one player-requested hint and records the revealed
// position for the word. The word must belong to the level and the
// position must index into it; otherwise the request is rejected before
// any state change. Fails with ErrHintsExhausted when the budget is
// spent, also with no state change. The budget decrement and the reveal
// commit together.
func (s *GameService) UseHint(userID, levelID int64, word string, position int) (*HintBudget, error) {
	_, words, err := s.loadLevel(levelID)
	if err != nil {
		return nil, err
	}

	normalized := game.Normalize(word)
	inList := false
	for _, lw := range words {
		if game.Normalize(lw.WordText) == normalized {
			inList = true
			break
		}
	}
	if !inList {
		return nil, ErrWordNotInLevel
	}
	if position < 0 || position >= len([]rune(normalized)) {
		return nil, ErrInvalidPosition
	}

	progress, ok, err := s.progressRepo.UseHint(userID, levelID, normalized, position, s.hintGrant)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrHintsExhausted
	}

	return &HintBudget{
		HintsUsed:      progress.HintsUsed,
		HintsAvailable: progress.HintsReceived - progress.HintsUsed,
		RevealedHints:  progress.RevealedHints,
	}, nil
}

// ResetLevel clears the user's progress for one level. The hint grant is
// restored; other levels and their score contributions are untouched.
func (s *GameService) ResetLevel(userID, levelID int64) error {
	if _, _, err := s.loadLevel(levelID); err != nil {
		return err
	}
	return s.progressRepo.ResetProgress(userID, levelID, s.hintGrant)
}

// GetCurrentLevel returns the level id the user last saved, or 0 when
// none has been saved yet
func (s *GameService) GetCurrentLevel(userID int64) (int64, error) {
	return s.progressRepo.GetCurrentLevel(userID)
}

// GetLeaderboard returns the level's ranked scores, descending
func (s *GameService) GetLeaderboard(levelID int64, limit int) ([]models.LeaderboardEntry, error) {
	if _, _, err := s.loadLevel(levelID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	return s.progressRepo.GetLeaderboard(levelID, limit)
}

// GetLevels returns all levels with the user's completion and unlock
// status. Unlock status follows the gate: a level is unlocked when every
// earlier level is completed.
func (s *GameService) GetLevels(userID int64) ([]models.LevelStatus, error) {
	levels, err := s.levelRepo.ListLevels()
	if err != nil {
		return nil, err
	}

	statuses := make([]models.LevelStatus, 0, len(levels))
	unlocked := true
	for _, level := range levels {
		words, err := s.levelRepo.GetLevelWords(level.ID)
		if err != nil {
			return nil, err
		}

		found := 0
		completed := false
		progress, err := s.progressRepo.GetProgress(userID, level.ID)
		if err != nil {
			return nil, err
		}
		if progress != nil {
			found = len(progress.FoundWords)
			completed = coversWordList(progress.FoundWords, words)
		}

		statuses = append(statuses, models.LevelStatus{
			Level:      level,
			Completed:  completed,
			Unlocked:   unlocked,
			WordsFound: found,
			WordsTotal: len(words),
		})

		// The next level unlocks only if this one is complete
		unlocked = unlocked && completed
	}

	return statuses, nil
}

// ClearSessionData purges the user's transient session cache (hint
// assignments, letter shuffles) without touching durable progress.
func (s *GameService) ClearSessionData(userID int64) {
	s.sessions.Clear(userID)
}

// CheckWord answers the standalone word-check endpoint: list membership
// plus letter-pool satisfiability, with a human-readable reason.
func (s *GameService) CheckWord(word string, levelID int64) (bool, string, error) {
	level, words, err := s.loadLevel(levelID)
	if err != nil {
		return false, "", err
	}

	normalized := game.Normalize(word)
	inList := false
	for _, lw := range words {
		if game.Normalize(lw.WordText) == normalized {
			inList = true
			break
		}
	}
	if !inList {
		return false, "not a word for this level", nil
	}

	if !s.validator.LettersSatisfiable(normalized, level.GivenLetters) {
		return false, "word cannot be built from the level's letters", nil
	}

	return true, "valid word", nil
}

// SessionSeed exposes the seed recorded for a user's session state
func (s *GameService) SessionSeed(userID int64) int64 {
	return s.sessions.Get(userID).Seed
}

// coversWordList reports whether found (case-folded) is a superset of the
// level's word list.
func coversWordList(found []string, words []models.LevelWord) bool {
	if len(words) == 0 {
		return false
	}

	foundSet := make(map[string]bool, len(found))
	for _, w := range found {
		foundSet[game.Normalize(w)] = true
	}

	for _, lw := range words {
		if !foundSet[game.Normalize(lw.WordText)] {
			return false
		}
	}
	return true
}
