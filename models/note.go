package models

import "gorm.io/gorm"

// Note holds the generated study notes for one uploaded document.
// Notes are immutable once created and owned by exactly one user.
type Note struct {
	gorm.Model
	PublicID string `gorm:"size:100;uniqueIndex" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"-"`
	Title    string `gorm:"not null;size:255" json:"title"`

	// Content is the model-generated markdown; OriginalText keeps the
	// extracted source text the notes were generated from.
	Content      string `gorm:"not null" json:"content"`
	OriginalText string `json:"originalText,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
