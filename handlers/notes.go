package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/example/microlearn-api/apperrors"
	"github.com/example/microlearn-api/middleware"
	"github.com/example/microlearn-api/models"
)

// noteForUser looks up a note by public id scoped to its owner. A note
// owned by someone else is indistinguishable from a missing one.
func (db *DBHandler) noteForUser(userID uint, publicID string) (*models.Note, error) {
	var note models.Note
	err := db.Where("public_id = ? AND user_id = ?", publicID, userID).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: note", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStore, err)
	}
	return &note, nil
}

func (db *DBHandler) GetNotes(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var notes []models.Note
	result := db.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&notes)
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	// Return an empty array instead of null
	if len(notes) == 0 {
		notes = []models.Note{}
	}

	writeJSON(w, http.StatusOK, notes)
}

func (db *DBHandler) GetNoteByID(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	noteID := r.PathValue("id")
	if noteID == "" {
		writeError(w, http.StatusBadRequest, "Note ID is required")
		return
	}

	note, err := db.noteForUser(user.ID, noteID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// GetQuizForNote returns the quiz generated alongside a note, questions
// in their generated order.
func (db *DBHandler) GetQuizForNote(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	noteID := r.PathValue("id")
	if noteID == "" {
		writeError(w, http.StatusBadRequest, "Note ID is required")
		return
	}

	note, err := db.noteForUser(user.ID, noteID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	var quiz models.Quiz
	result := db.Where("note_id = ? AND user_id = ?", note.ID, user.ID).
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		First(&quiz)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}
