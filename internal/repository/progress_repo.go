package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"wordscapes/internal/database"
	"wordscapes/internal/models"
)

// ProgressRepository is the durable progress store: one row per
// (user, level), created on first interaction and mutated on every valid
// word submission or hint use. Word-list and hint-map columns are JSON
// text. Mutations on the word path run inside a transaction so two
// concurrent submissions cannot lose an update.
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

const progressColumns = `id, user_id, level_id, found_words, hints_used, hints_received,
		       level_score, revealed_hints, start_time, last_played`

// GetProgress retrieves the progress row for a (user, level) pair.
// Returns (nil, nil) when no row exists yet.
func (r *ProgressRepository) GetProgress(userID, levelID int64) (*models.Progress, error) {
	return getProgressRow(r.db, userID, levelID)
}

// EnsureProgress retrieves the progress row, creating a zero-valued one on
// first access. hintGrant is the initial player-requested hint budget.
func (r *ProgressRepository) EnsureProgress(userID, levelID int64, hintGrant int) (*models.Progress, error) {
	progress, err := getProgressRow(r.db, userID, levelID)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		return progress, nil
	}

	if err := insertZeroProgress(r.db, userID, levelID, hintGrant); err != nil {
		// A concurrent first access may have inserted the row already;
		// the unique (user_id, level_id) constraint makes the re-read safe.
		if progress, rerr := getProgressRow(r.db, userID, levelID); rerr == nil && progress != nil {
			return progress, nil
		}
		return nil, fmt.Errorf("failed to create progress: %w", err)
	}

	return getProgressRow(r.db, userID, levelID)
}

// AddFoundWord appends a word to found_words and adds points to the level
// score in a single transaction. Returns the updated row and false when
// the word was already present (no state change).
func (r *ProgressRepository) AddFoundWord(userID, levelID int64, word string, points, hintGrant int) (*models.Progress, bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	progress, err := getProgressRowLocked(tx, userID, levelID)
	if err != nil {
		return nil, false, err
	}
	if progress == nil {
		if err := insertZeroProgress(tx, userID, levelID, hintGrant); err != nil {
			return nil, false, fmt.Errorf("failed to create progress: %w", err)
		}
		progress, err = getProgressRowLocked(tx, userID, levelID)
		if err != nil || progress == nil {
			return nil, false, fmt.Errorf("failed to re-read progress: %w", err)
		}
	}

	if progress.HasFound(word) {
		return progress, false, nil
	}

	progress.FoundWords = append(progress.FoundWords, word)
	progress.LevelScore += points
	progress.LastPlayed = time.Now()

	foundJSON, err := json.Marshal(progress.FoundWords)
	if err != nil {
		return nil, false, err
	}

	_, err = tx.Exec(`
		UPDATE level_progress
		SET found_words = ?, level_score = ?, last_played = ?
		WHERE user_id = ? AND level_id = ?
	`, string(foundJSON), progress.LevelScore, progress.LastPlayed, userID, levelID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return progress, true, nil
}

// UseHint consumes one unit of the player-requested hint budget and
// records the revealed position for the word, in a single transaction.
// Returns false without state change when the budget is exhausted; the
// position append is idempotent (an already-present position is a no-op,
// the hint is still consumed).
func (r *ProgressRepository) UseHint(userID, levelID int64, word string, position, hintGrant int) (*models.Progress, bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	progress, err := getProgressRowLocked(tx, userID, levelID)
	if err != nil {
		return nil, false, err
	}
	if progress == nil {
		if err := insertZeroProgress(tx, userID, levelID, hintGrant); err != nil {
			return nil, false, fmt.Errorf("failed to create progress: %w", err)
		}
		progress, err = getProgressRowLocked(tx, userID, levelID)
		if err != nil || progress == nil {
			return nil, false, fmt.Errorf("failed to re-read progress: %w", err)
		}
	}

	if progress.HintsUsed >= progress.HintsReceived {
		return progress, false, nil
	}

	progress.HintsUsed++
	progress.LastPlayed = time.Now()

	present := false
	for _, p := range progress.RevealedHints[word] {
		if p == position {
			present = true
			break
		}
	}
	if !present {
		if progress.RevealedHints == nil {
			progress.RevealedHints = make(map[string][]int)
		}
		progress.RevealedHints[word] = append(progress.RevealedHints[word], position)
	}

	revealedJSON, err := json.Marshal(progress.RevealedHints)
	if err != nil {
		return nil, false, err
	}

	_, err = tx.Exec(`
		UPDATE level_progress
		SET hints_used = ?, revealed_hints = ?, last_played = ?
		WHERE user_id = ? AND level_id = ?
	`, progress.HintsUsed, string(revealedJSON), progress.LastPlayed, userID, levelID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update hints: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return progress, true, nil
}

// ResetProgress clears found words, hint usage, and the level's score
// contribution. Other levels are untouched; the total score recomputes
// from the remaining rows.
func (r *ProgressRepository) ResetProgress(userID, levelID int64, hintGrant int) error {
	_, err := r.db.Exec(`
		UPDATE level_progress
		SET found_words = '[]', hints_used = 0, hints_received = ?,
		    level_score = 0, revealed_hints = '{}', last_played = ?
		WHERE user_id = ? AND level_id = ?
	`, hintGrant, time.Now(), userID, levelID)
	if err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	return nil
}

// GetUserTotalScore sums the user's score across all levels
func (r *ProgressRepository) GetUserTotalScore(userID int64) (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(level_score), 0)
		FROM level_progress
		WHERE user_id = ?
	`, userID).Scan(&total)
	return total, err
}

// GetLeaderboard returns the level's scores across users, descending.
// Ties break on user name for a stable order.
func (r *ProgressRepository) GetLeaderboard(levelID int64, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT p.user_id, u.name, p.level_id, p.level_score
		FROM level_progress p
		JOIN users u ON u.id = p.user_id
		WHERE p.level_id = ?
		ORDER BY p.level_score DESC, u.name ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, levelID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		err := rows.Scan(&entry.UserID, &entry.UserName, &entry.LevelID, &entry.Score)
		if err != nil {
			return nil, err
		}
		entry.Rank = len(entries) + 1
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// SetCurrentLevel persists which level the user is on
func (r *ProgressRepository) SetCurrentLevel(userID, levelID int64) error {
	result, err := r.db.Exec(`
		UPDATE user_current_level
		SET level_id = ?, updated_at = ?
		WHERE user_id = ?
	`, levelID, time.Now(), userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		_, err = r.db.Exec(`
			INSERT INTO user_current_level (user_id, level_id)
			VALUES (?, ?)
		`, userID, levelID)
		return err
	}

	return nil
}

// GetCurrentLevel returns the user's saved level id, or 0 if none
func (r *ProgressRepository) GetCurrentLevel(userID int64) (int64, error) {
	var levelID int64
	err := r.db.QueryRow(`
		SELECT level_id FROM user_current_level WHERE user_id = ?
	`, userID).Scan(&levelID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return levelID, err
}

// getProgressRow reads a progress row inside or outside a transaction
func getProgressRow(q database.DBTX, userID, levelID int64) (*models.Progress, error) {
	return readProgressRow(q, userID, levelID, false)
}

// getProgressRowLocked reads a progress row and locks it for the rest of
// the transaction, so a concurrent read-modify-write on the same
// (user, level) pair cannot act on the same snapshot and lose an update.
func getProgressRowLocked(q database.DBTX, userID, levelID int64) (*models.Progress, error) {
	return readProgressRow(q, userID, levelID, true)
}

func readProgressRow(q database.DBTX, userID, levelID int64, forUpdate bool) (*models.Progress, error) {
	query := `
		SELECT ` + progressColumns + `
		FROM level_progress
		WHERE user_id = ? AND level_id = ?
	`
	if forUpdate {
		query += q.GetDialect().SelectForUpdateSuffix()
	}

	progress := &models.Progress{}
	var foundJSON, revealedJSON string

	err := q.QueryRow(query, userID, levelID).Scan(
		&progress.ID,
		&progress.UserID,
		&progress.LevelID,
		&foundJSON,
		&progress.HintsUsed,
		&progress.HintsReceived,
		&progress.LevelScore,
		&revealedJSON,
		&progress.StartTime,
		&progress.LastPlayed,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	if err := json.Unmarshal([]byte(foundJSON), &progress.FoundWords); err != nil {
		return nil, fmt.Errorf("corrupt found_words column: %w", err)
	}
	if err := json.Unmarshal([]byte(revealedJSON), &progress.RevealedHints); err != nil {
		return nil, fmt.Errorf("corrupt revealed_hints column: %w", err)
	}

	return progress, nil
}

// insertZeroProgress creates the first-touch row for a (user, level) pair
func insertZeroProgress(q database.DBTX, userID, levelID int64, hintGrant int) error {
	now := time.Now()
	_, err := q.Exec(`
		INSERT INTO level_progress
		(user_id, level_id, found_words, hints_used, hints_received,
		 level_score, revealed_hints, start_time, last_played)
		VALUES (?, ?, '[]', 0, ?, 0, '{}', ?, ?)
	`, userID, levelID, hintGrant, now, now)
	return err
}
