package models

import "gorm.io/gorm"

// Quiz is a generated multiple-choice quiz, optionally linked to the
// note it was generated alongside. Immutable once created.
type Quiz struct {
	gorm.Model
	PublicID string `gorm:"size:100;uniqueIndex" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"-"`
	NoteID   *uint  `gorm:"index" json:"-"`
	Title    string `gorm:"not null;size:255" json:"title"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions"`

	User User  `gorm:"foreignKey:UserID" json:"-"`
	Note *Note `gorm:"foreignKey:NoteID" json:"-"`
}

// QuizQuestion is one question of a quiz. CorrectAnswer matches one of
// Options exactly.
type QuizQuestion struct {
	gorm.Model
	QuizID        uint       `gorm:"not null;index" json:"-"`
	Position      int        `gorm:"not null" json:"-"`
	Prompt        string     `gorm:"not null" json:"question"`
	Options       StringList `gorm:"type:text;not null" json:"options"`
	CorrectAnswer string     `gorm:"not null" json:"correctAnswer"`
}
