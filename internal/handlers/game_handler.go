package handlers

import (
	"encoding/json"
	"net/http"

	"wordscapes/internal/service"
	"wordscapes/internal/validation"
)

// GameHandler exposes the game action endpoint and the standalone
// word-check endpoint. Every action requires an authenticated user and
// returns a JSON envelope with a success flag.
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

type actionRequest struct {
	Action   string `json:"action"`
	Word     string `json:"word"`
	LevelID  int64  `json:"level_id"`
	Position int    `json:"position"`
	Limit    int    `json:"limit"`
}

type levelPayload struct {
	LevelID      int64  `json:"level_id"`
	LevelNumber  int    `json:"level_number"`
	GivenLetters string `json:"given_letters"`
	Difficulty   int    `json:"difficulty"`
}

type progressPayload struct {
	FoundWords        []string         `json:"found_words"`
	HintsUsed         int              `json:"hints_used"`
	HintsReceived     int              `json:"hints_received"`
	CurrentLevelScore int              `json:"current_level_score"`
	TotalScore        int              `json:"total_score"`
	RevealedHints     map[string][]int `json:"revealed_hints"`
	StartTime         int64            `json:"start_time"`
	LastPlayed        int64            `json:"last_played"`
}

// HandleAction dispatches a game action by name
func (h *GameHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondFailure(w, http.StatusUnauthorized, MsgNotAuthenticated)
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFailure(w, http.StatusBadRequest, MsgInvalidRequest)
		return
	}

	switch req.Action {
	case "check_word":
		h.checkWord(w, user.ID, req)
	case "use_hint":
		h.useHint(w, user.ID, req)
	case "get_progress":
		h.getProgress(w, user.ID, req)
	case "get_leaderboard":
		h.getLeaderboard(w, req)
	case "reset_level":
		h.resetLevel(w, user.ID, req)
	case "save_current_level":
		h.saveCurrentLevel(w, user.ID, req)
	case "clear_session":
		h.clearSession(w, user.ID)
	case "get_levels":
		h.getLevels(w, user.ID)
	default:
		respondFailure(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *GameHandler) checkWord(w http.ResponseWriter, userID int64, req actionRequest) {
	if err := validation.ValidateWord(req.Word); err != nil {
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.gameService.AddFoundWord(userID, req.LevelID, req.Word)
	if err != nil {
		respondServiceError(w, err, "Error checking word")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":             true,
		"word":                result.Word,
		"score":               result.Score,
		"current_level_score": result.CurrentLevelScore,
		"found_words":         result.FoundWords,
		"level_completed":     result.LevelCompleted,
	})
}

func (h *GameHandler) useHint(w http.ResponseWriter, userID int64, req actionRequest) {
	if err := validation.ValidateWord(req.Word); err != nil {
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Position < 0 {
		respondFailure(w, http.StatusBadRequest, "position must not be negative")
		return
	}

	budget, err := h.gameService.UseHint(userID, req.LevelID, req.Word, req.Position)
	if err != nil {
		respondServiceError(w, err, "Error using hint")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"hints_used":      budget.HintsUsed,
		"hints_available": budget.HintsAvailable,
		"revealed_hints":  budget.RevealedHints,
	})
}

func (h *GameHandler) getProgress(w http.ResponseWriter, userID int64, req actionRequest) {
	data, err := h.gameService.GetGameData(userID, req.LevelID)
	if err != nil {
		respondServiceError(w, err, "Error getting progress")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"level": levelPayload{
			LevelID:      data.Level.ID,
			LevelNumber:  data.Level.LevelNumber,
			GivenLetters: data.Level.GivenLetters,
			Difficulty:   data.Level.Difficulty,
		},
		"progress": progressPayload{
			FoundWords:        data.Progress.FoundWords,
			HintsUsed:         data.Progress.HintsUsed,
			HintsReceived:     data.Progress.HintsReceived,
			CurrentLevelScore: data.Progress.LevelScore,
			TotalScore:        data.Progress.TotalScore,
			RevealedHints:     data.Progress.RevealedHints,
			StartTime:         data.Progress.StartTime.Unix(),
			LastPlayed:        data.Progress.LastPlayed.Unix(),
		},
		"words_total":      data.WordsTotal,
		"shuffled_letters": data.ShuffledLetters,
		"hint_assignments": data.HintAssignments,
	})
}

func (h *GameHandler) getLeaderboard(w http.ResponseWriter, req actionRequest) {
	entries, err := h.gameService.GetLeaderboard(req.LevelID, req.Limit)
	if err != nil {
		respondServiceError(w, err, "Error getting leaderboard")
		return
	}

	leaderboard := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		leaderboard = append(leaderboard, map[string]interface{}{
			"rank":  entry.Rank,
			"user":  entry.UserName,
			"score": entry.Score,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"level_id":    req.LevelID,
		"leaderboard": leaderboard,
	})
}

func (h *GameHandler) resetLevel(w http.ResponseWriter, userID int64, req actionRequest) {
	if err := h.gameService.ResetLevel(userID, req.LevelID); err != nil {
		respondServiceError(w, err, "Error resetting level")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *GameHandler) saveCurrentLevel(w http.ResponseWriter, userID int64, req actionRequest) {
	// level_id carries the level number for this action
	level, err := h.gameService.SaveCurrentLevel(userID, int(req.LevelID))
	if err != nil {
		respondServiceError(w, err, "Error saving current level")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"level_id":     level.ID,
		"level_number": level.LevelNumber,
	})
}

func (h *GameHandler) clearSession(w http.ResponseWriter, userID int64) {
	h.gameService.ClearSessionData(userID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *GameHandler) getLevels(w http.ResponseWriter, userID int64) {
	statuses, err := h.gameService.GetLevels(userID)
	if err != nil {
		respondServiceError(w, err, "Error listing levels")
		return
	}

	currentID, err := h.gameService.GetCurrentLevel(userID)
	if err != nil {
		respondServiceError(w, err, "Error getting current level")
		return
	}

	levels := make([]map[string]interface{}, 0, len(statuses))
	for _, status := range statuses {
		levels = append(levels, map[string]interface{}{
			"level_id":     status.Level.ID,
			"level_number": status.Level.LevelNumber,
			"difficulty":   status.Level.Difficulty,
			"completed":    status.Completed,
			"unlocked":     status.Unlocked,
			"words_found":  status.WordsFound,
			"words_total":  status.WordsTotal,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"levels":           levels,
		"current_level_id": currentID, // 0 until save_current_level is used
	})
}

type checkWordRequest struct {
	Word    string `json:"word"`
	LevelID int64  `json:"level_id"`
}

// CheckWordOnly is the standalone word-check endpoint: pure validation
// against the level's word list and letter pool, no state change.
func (h *GameHandler) CheckWordOnly(w http.ResponseWriter, r *http.Request) {
	var req checkWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFailure(w, http.StatusBadRequest, MsgInvalidRequest)
		return
	}

	if err := validation.ValidateWord(req.Word); err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"valid":   false,
			"message": err.Error(),
		})
		return
	}

	valid, message, err := h.gameService.CheckWord(req.Word, req.LevelID)
	if err != nil {
		respondServiceError(w, err, "Error checking word")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":   valid,
		"message": message,
	})
}
