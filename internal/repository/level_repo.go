package repository

import (
	"database/sql"
	"fmt"

	"wordscapes/internal/database"
	"wordscapes/internal/models"
)

// LevelRepository provides read access to the level catalog. Levels are
// immutable once created; writes exist only for seeding and admin tooling.
type LevelRepository struct {
	db *database.DB
}

// NewLevelRepository creates a new level repository
func NewLevelRepository(db *database.DB) *LevelRepository {
	return &LevelRepository{db: db}
}

// GetLevelByID retrieves a level by its internal id. Returns (nil, nil)
// when no such level exists; callers fall back to the first level.
func (r *LevelRepository) GetLevelByID(id int64) (*models.Level, error) {
	query := `
		SELECT id, level_number, given_letters, difficulty, created_at
		FROM levels
		WHERE id = ?
	`
	return r.scanLevel(r.db.QueryRow(query, id))
}

// GetLevelByNumber retrieves a level by its ordinal number. Returns
// (nil, nil) when the number has no row.
func (r *LevelRepository) GetLevelByNumber(number int) (*models.Level, error) {
	query := `
		SELECT id, level_number, given_letters, difficulty, created_at
		FROM levels
		WHERE level_number = ?
	`
	return r.scanLevel(r.db.QueryRow(query, number))
}

func (r *LevelRepository) scanLevel(row *sql.Row) (*models.Level, error) {
	level := &models.Level{}
	err := row.Scan(
		&level.ID,
		&level.LevelNumber,
		&level.GivenLetters,
		&level.Difficulty,
		&level.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get level: %w", err)
	}

	return level, nil
}

// GetLevelWords retrieves the level's word list in insertion order
func (r *LevelRepository) GetLevelWords(levelID int64) ([]models.LevelWord, error) {
	query := `
		SELECT id, level_id, word_text
		FROM level_words
		WHERE level_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query, levelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get level words: %w", err)
	}
	defer rows.Close()

	var words []models.LevelWord
	for rows.Next() {
		var word models.LevelWord
		if err := rows.Scan(&word.ID, &word.LevelID, &word.WordText); err != nil {
			return nil, err
		}
		words = append(words, word)
	}

	return words, rows.Err()
}

// CountLevels returns the total number of levels
func (r *LevelRepository) CountLevels() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM levels").Scan(&count)
	return count, err
}

// ListLevels returns all levels ordered by level number
func (r *LevelRepository) ListLevels() ([]models.Level, error) {
	query := `
		SELECT id, level_number, given_letters, difficulty, created_at
		FROM levels
		ORDER BY level_number ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	defer rows.Close()

	var levels []models.Level
	for rows.Next() {
		var level models.Level
		err := rows.Scan(
			&level.ID,
			&level.LevelNumber,
			&level.GivenLetters,
			&level.Difficulty,
			&level.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}

	return levels, rows.Err()
}

// CreateLevel inserts a new level with its word list
func (r *LevelRepository) CreateLevel(number int, letters string, difficulty int, words []string) (*models.Level, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	levelID, err := tx.ExecReturningID(`
		INSERT INTO levels (level_number, given_letters, difficulty)
		VALUES (?, ?, ?)
	`, number, letters, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to create level: %w", err)
	}

	for _, word := range words {
		_, err := tx.Exec(`
			INSERT INTO level_words (level_id, word_text)
			VALUES (?, ?)
		`, levelID, word)
		if err != nil {
			return nil, fmt.Errorf("failed to add word %q: %w", word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetLevelByID(levelID)
}

// defaultLevels seeds a small playable catalog on first run
var defaultLevels = []struct {
	letters    string
	difficulty int
	words      []string
}{
	{"CATS", 1, []string{"cat", "cats", "act", "acts"}},
	{"STONE", 1, []string{"one", "ton", "net", "not", "note", "tone", "stone"}},
	{"PLANET", 2, []string{"pan", "pat", "tap", "ant", "plan", "plane", "plant", "planet"}},
	{"GARDENS", 3, []string{"age", "den", "end", "ran", "sad", "and", "rage", "sand", "send", "grade", "danger", "garden", "gardens"}},
}

// SeedDefaultLevels inserts the default catalog if no levels exist yet
func (r *LevelRepository) SeedDefaultLevels() error {
	count, err := r.CountLevels()
	if err != nil {
		return fmt.Errorf("failed to count levels: %w", err)
	}
	if count > 0 {
		return nil
	}

	for i, def := range defaultLevels {
		if _, err := r.CreateLevel(i+1, def.letters, def.difficulty, def.words); err != nil {
			return fmt.Errorf("failed to seed level %d: %w", i+1, err)
		}
	}

	return nil
}
