package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/example/microlearn-api/middleware"
)

// maxUploadBytes caps the multipart form held in memory.
const maxUploadBytes = 32 << 20

// Upload runs the document pipeline: extract text, generate notes and
// a quiz, persist both, and return the new note's id.
func (db *DBHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read uploaded file")
		return
	}

	noteID, err := db.Pipeline.Process(r.Context(), user.ID, header.Filename, payload, header.Header.Get("Content-Type"))
	if err != nil {
		slog.Error("document processing failed", "user", user.Username, "file", header.Filename, "error", err)
		writeAppError(w, err)
		return
	}

	slog.Info("document processed", "user", user.Username, "file", header.Filename, "note", noteID)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Success",
		"noteId":  noteID,
	})
}
