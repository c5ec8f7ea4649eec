package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/microlearn-api/auth"
	"github.com/example/microlearn-api/middleware"
)

// Register creates an account and, like login, starts a session for it
// right away.
func (db *DBHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := auth.Register(db.DB, req.Username, req.Email, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}

	token, err := auth.StartSession(db.DB, db.SessionSecret, user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	setSessionCookie(w, token)

	slog.Info("user registered", "username", user.Username)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (db *DBHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := auth.Verify(db.DB, req.Email, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}

	token, err := auth.StartSession(db.DB, db.SessionSecret, user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	setSessionCookie(w, token)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    user,
	})
}

func (db *DBHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		token = cookie.Value
	}

	if err := auth.EndSession(db.DB, db.SessionSecret, token); err != nil {
		writeError(w, http.StatusInternalServerError, "Error logging out")
		return
	}
	clearSessionCookie(w)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Me returns the authenticated user. The password hash never
// serializes (json:"-").
func (db *DBHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.SessionTTL.Seconds()),
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
