package models

import "gorm.io/gorm"

// User represents a registered account
type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null;size:100" json:"username"`
	Email        string `gorm:"unique;not null;size:200" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	Notes    []Note     `gorm:"foreignKey:UserID" json:"-"`
	Quizzes  []Quiz     `gorm:"foreignKey:UserID" json:"-"`
	Progress []Progress `gorm:"foreignKey:UserID" json:"-"`
}
