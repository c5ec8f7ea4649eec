package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/example/microlearn-api/middleware"
	"github.com/example/microlearn-api/models"
)

// SaveProgress appends one quiz attempt. The quiz id in the request is
// the quiz's public id and must belong to the caller.
func (db *DBHandler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		QuizID         string `json:"quizId"`
		Score          int    `json:"score"`
		TotalQuestions int    `json:"totalQuestions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var quiz models.Quiz
	err := db.Where("public_id = ? AND user_id = ?", req.QuizID, user.ID).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	progress := models.Progress{
		UserID:         user.ID,
		QuizID:         quiz.ID,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
	}
	if err := db.Create(&progress).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Progress saved"})
}

func (db *DBHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var progress []models.Progress
	if err := db.Where("user_id = ?", user.ID).Find(&progress).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if len(progress) == 0 {
		progress = []models.Progress{}
	}

	writeJSON(w, http.StatusOK, progress)
}
