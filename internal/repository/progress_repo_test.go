package repository

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"wordscapes/internal/database"
	"wordscapes/internal/models"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *database.DB, email, name string) *models.User {
	t.Helper()
	user, err := NewUserRepository(db).CreateUser(email, "hash", name)
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func createTestLevel(t *testing.T, db *database.DB, number int, letters string, words ...string) *models.Level {
	t.Helper()
	level, err := NewLevelRepository(db).CreateLevel(number, letters, 1, words)
	if err != nil {
		t.Fatalf("Failed to create level: %v", err)
	}
	return level
}

func TestAddFoundWordScoringIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "player@example.com", "Player")
	level := createTestLevel(t, db, 1, "CATS", "cat", "cats")
	repo := NewProgressRepository(db)

	progress, added, err := repo.AddFoundWord(user.ID, level.ID, "cat", 10, 3)
	if err != nil {
		t.Fatalf("AddFoundWord failed: %v", err)
	}
	if !added {
		t.Fatal("first submission should be added")
	}
	if progress.LevelScore != 10 {
		t.Errorf("LevelScore = %d, want 10", progress.LevelScore)
	}

	// Second submission of the same word changes nothing
	progress, added, err = repo.AddFoundWord(user.ID, level.ID, "cat", 10, 3)
	if err != nil {
		t.Fatalf("AddFoundWord failed: %v", err)
	}
	if added {
		t.Error("duplicate submission should not be added")
	}
	if progress.LevelScore != 10 {
		t.Errorf("LevelScore after duplicate = %d, want 10", progress.LevelScore)
	}
	if len(progress.FoundWords) != 1 {
		t.Errorf("FoundWords = %v, want one entry", progress.FoundWords)
	}
}

func TestEnsureProgressCreatesZeroRow(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "player@example.com", "Player")
	level := createTestLevel(t, db, 1, "CATS", "cat")
	repo := NewProgressRepository(db)

	if p, err := repo.GetProgress(user.ID, level.ID); err != nil || p != nil {
		t.Fatalf("expected no row before first access, got %v, %v", p, err)
	}

	progress, err := repo.EnsureProgress(user.ID, level.ID, 3)
	if err != nil {
		t.Fatalf("EnsureProgress failed: %v", err)
	}
	if len(progress.FoundWords) != 0 || progress.LevelScore != 0 || progress.HintsUsed != 0 {
		t.Errorf("expected zero-valued row, got %+v", progress)
	}
	if progress.HintsReceived != 3 {
		t.Errorf("HintsReceived = %d, want 3", progress.HintsReceived)
	}
}

func TestUseHintBudget(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "player@example.com", "Player")
	level := createTestLevel(t, db, 1, "CATS", "cat")
	repo := NewProgressRepository(db)

	for i := 1; i <= 3; i++ {
		progress, ok, err := repo.UseHint(user.ID, level.ID, "cat", i-1, 3)
		if err != nil {
			t.Fatalf("UseHint %d failed: %v", i, err)
		}
		if !ok {
			t.Fatalf("UseHint %d should succeed", i)
		}
		if progress.HintsUsed != i {
			t.Errorf("HintsUsed = %d, want %d", progress.HintsUsed, i)
		}
		// The consumed hint and its revealed position commit together
		if got := progress.RevealedHints["cat"]; len(got) != i {
			t.Errorf("RevealedHints[cat] = %v, want %d positions", got, i)
		}
	}

	// Budget exhausted: no state change, no new reveal
	progress, ok, err := repo.UseHint(user.ID, level.ID, "cat", 0, 3)
	if err != nil {
		t.Fatalf("UseHint failed: %v", err)
	}
	if ok {
		t.Error("UseHint should fail once the budget is spent")
	}
	if progress.HintsUsed != 3 {
		t.Errorf("HintsUsed = %d, want 3", progress.HintsUsed)
	}
	if got := progress.RevealedHints["cat"]; len(got) != 3 {
		t.Errorf("RevealedHints[cat] = %v, want the original 3 positions", got)
	}
}

func TestUseHintRepeatedPosition(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "player@example.com", "Player")
	level := createTestLevel(t, db, 1, "CATS", "cat")
	repo := NewProgressRepository(db)

	for i := 0; i < 2; i++ {
		if _, _, err := repo.UseHint(user.ID, level.ID, "cat", 1, 3); err != nil {
			t.Fatalf("UseHint failed: %v", err)
		}
	}

	progress, err := repo.GetProgress(user.ID, level.ID)
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}
	// Both hints are spent but the position is recorded once
	if progress.HintsUsed != 2 {
		t.Errorf("HintsUsed = %d, want 2", progress.HintsUsed)
	}
	if got := progress.RevealedHints["cat"]; len(got) != 1 || got[0] != 1 {
		t.Errorf("RevealedHints[cat] = %v, want [1]", got)
	}
}

func TestAddFoundWordConcurrent(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "player@example.com", "Player")
	level := createTestLevel(t, db, 1, "CATS", "cat", "cats", "act", "acts")
	repo := NewProgressRepository(db)

	words := []string{"cat", "cats", "act", "acts"}
	errs := make(chan error, len(words))
	var wg sync.WaitGroup
	for _, word := range words {
		wg.Add(1)
		go func(word string) {
			defer wg.Done()
			_, added, err := repo.AddFoundWord(user.ID, level.ID, word, 10, 3)
			if err != nil {
				errs <- err
				return
			}
			if !added {
				errs <- fmt.Errorf("word %q reported as duplicate", word)
			}
		}(word)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent AddFoundWord: %v", err)
	}

	// No submission may overwrite another's append
	progress, err := repo.GetProgress(user.ID, level.ID)
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}
	if len(progress.FoundWords) != len(words) {
		t.Errorf("FoundWords = %v, want all %d words", progress.FoundWords, len(words))
	}
	for _, word := range words {
		if !progress.HasFound(word) {
			t.Errorf("word %q lost", word)
		}
	}
	if progress.LevelScore != 10*len(words) {
		t.Errorf("LevelScore = %d, want %d", progress.LevelScore, 10*len(words))
	}
}

func TestResetProgressLeavesOtherLevels(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "player@example.com", "Player")
	levelOne := createTestLevel(t, db, 1, "CATS", "cat", "cats")
	levelTwo := createTestLevel(t, db, 2, "STONE", "tone")
	repo := NewProgressRepository(db)

	mustAdd := func(levelID int64, word string) {
		t.Helper()
		if _, added, err := repo.AddFoundWord(user.ID, levelID, word, 10, 3); err != nil || !added {
			t.Fatalf("AddFoundWord(%q) failed: added=%v err=%v", word, added, err)
		}
	}
	mustAdd(levelOne.ID, "cat")
	mustAdd(levelOne.ID, "cats")
	mustAdd(levelTwo.ID, "tone")

	if err := repo.ResetProgress(user.ID, levelOne.ID, 3); err != nil {
		t.Fatalf("ResetProgress failed: %v", err)
	}

	progress, err := repo.GetProgress(user.ID, levelOne.ID)
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}
	if len(progress.FoundWords) != 0 || progress.LevelScore != 0 || progress.HintsUsed != 0 {
		t.Errorf("level one not reset: %+v", progress)
	}

	// The other level's contribution survives and the total recomputes
	total, err := repo.GetUserTotalScore(user.ID)
	if err != nil {
		t.Fatalf("GetUserTotalScore failed: %v", err)
	}
	if total != 10 {
		t.Errorf("total score after reset = %d, want 10", total)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice@example.com", "Alice")
	bob := createTestUser(t, db, "bob@example.com", "Bob")
	level := createTestLevel(t, db, 1, "CATS", "cat", "cats", "act")
	repo := NewProgressRepository(db)

	for _, word := range []string{"cat", "cats"} {
		if _, _, err := repo.AddFoundWord(bob.ID, level.ID, word, 10, 3); err != nil {
			t.Fatalf("AddFoundWord failed: %v", err)
		}
	}
	if _, _, err := repo.AddFoundWord(alice.ID, level.ID, "cat", 10, 3); err != nil {
		t.Fatalf("AddFoundWord failed: %v", err)
	}

	entries, err := repo.GetLeaderboard(level.ID, 10)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].UserName != "Bob" || entries[0].Score != 20 || entries[0].Rank != 1 {
		t.Errorf("first entry = %+v, want Bob with 20 points at rank 1", entries[0])
	}
	if entries[1].UserName != "Alice" || entries[1].Score != 10 || entries[1].Rank != 2 {
		t.Errorf("second entry = %+v, want Alice with 10 points at rank 2", entries[1])
	}
}

func TestCurrentLevelUpsert(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "player@example.com", "Player")
	levelOne := createTestLevel(t, db, 1, "CATS", "cat")
	levelTwo := createTestLevel(t, db, 2, "STONE", "tone")
	repo := NewProgressRepository(db)

	if got, err := repo.GetCurrentLevel(user.ID); err != nil || got != 0 {
		t.Fatalf("expected no current level, got %d, %v", got, err)
	}

	if err := repo.SetCurrentLevel(user.ID, levelOne.ID); err != nil {
		t.Fatalf("SetCurrentLevel failed: %v", err)
	}
	if err := repo.SetCurrentLevel(user.ID, levelTwo.ID); err != nil {
		t.Fatalf("SetCurrentLevel update failed: %v", err)
	}

	got, err := repo.GetCurrentLevel(user.ID)
	if err != nil {
		t.Fatalf("GetCurrentLevel failed: %v", err)
	}
	if got != levelTwo.ID {
		t.Errorf("current level = %d, want %d", got, levelTwo.ID)
	}
}
