package models

import "gorm.io/gorm"

// Progress records one quiz attempt. Append-only.
type Progress struct {
	gorm.Model
	UserID         uint `gorm:"not null;index" json:"-"`
	QuizID         uint `gorm:"not null;index" json:"quizId"`
	Score          int  `gorm:"not null" json:"score"`
	TotalQuestions int  `gorm:"not null" json:"totalQuestions"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Quiz Quiz `gorm:"foreignKey:QuizID" json:"-"`
}
