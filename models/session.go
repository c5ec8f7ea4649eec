package models

import "time"

// Session binds a hashed login token to a user. The cookie holds the
// raw token; only its HMAC is stored here, so a database leak does not
// leak usable sessions.
type Session struct {
	TokenHash string    `gorm:"primaryKey;size:64"`
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
}
