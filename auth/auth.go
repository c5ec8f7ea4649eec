// Package auth implements the credential store and the session guard.
// Passwords are stored as bcrypt hashes. Sessions live in the database
// so they survive restarts and are shared across instances: the cookie
// carries an opaque random token and the sessions table stores its
// keyed hash with an absolute 24-hour expiry.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/example/microlearn-api/apperrors"
	"github.com/example/microlearn-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionTTL is the absolute lifetime of a login session.
const SessionTTL = 24 * time.Hour

// CookieName is the session cookie set at login and cleared at logout.
const CookieName = "microlearn_session"

// Register creates a new user. Returns apperrors.ErrConflict when the
// username or email is already taken.
func Register(db *gorm.DB, username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", apperrors.ErrInvalidCredentials)
	}

	var existing models.User
	err := db.Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		return nil, apperrors.ErrConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStore, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStore, err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStore, err)
	}

	return &user, nil
}

// Verify checks an email/password pair. Unknown emails and wrong
// passwords both return apperrors.ErrInvalidCredentials so callers
// cannot probe which addresses are registered.
func Verify(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStore, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return &user, nil
}

// StartSession creates a session row for the user and returns the raw
// token for the cookie.
func StartSession(db *gorm.DB, secret string, userID uint) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrStore, err)
	}
	token := hex.EncodeToString(raw)

	session := models.Session{
		TokenHash: hashToken(secret, token),
		UserID:    userID,
		ExpiresAt: time.Now().Add(SessionTTL),
	}
	if err := db.Create(&session).Error; err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrStore, err)
	}

	return token, nil
}

// Authenticate resolves a cookie token to its user. Expired sessions
// are removed on sight and rejected.
func Authenticate(db *gorm.DB, secret, token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var session models.Session
	err := db.Where("token_hash = ?", hashToken(secret, token)).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStore, err)
	}

	if time.Now().After(session.ExpiresAt) {
		db.Delete(&session)
		return nil, apperrors.ErrUnauthorized
	}

	var user models.User
	if err := db.First(&user, session.UserID).Error; err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	return &user, nil
}

// EndSession deletes the session row for the given token. Deleting an
// unknown token is not an error.
func EndSession(db *gorm.DB, secret, token string) error {
	if token == "" {
		return nil
	}
	if err := db.Where("token_hash = ?", hashToken(secret, token)).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStore, err)
	}
	return nil
}

func hashToken(secret, token string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
