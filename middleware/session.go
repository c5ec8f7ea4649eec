package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/example/microlearn-api/auth"
	"github.com/example/microlearn-api/models"
	"gorm.io/gorm"
)

type contextKey string

const userKey contextKey = "user"

// RequireSession resolves the session cookie to a user and attaches it
// to the request context. Requests without a valid session are
// rejected with a 401 JSON body and never reach the handler.
func RequireSession(db *gorm.DB, secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(auth.CookieName); err == nil {
			token = cookie.Value
		}

		user, err := auth.Authenticate(db, secret, token)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// UserFrom returns the authenticated user attached by RequireSession.
func UserFrom(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(userKey).(*models.User)
	return user, ok
}
