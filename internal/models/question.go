package models

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID            uint      `gorm:"primaryKey"`
	TopicID       string    `gorm:"type:varchar(36);not null;index"`
	Text          string    `gorm:"type:text;not null"`
	Options       string    `gorm:"type:text;not null"` // JSON array of exactly 4 strings
	CorrectOption int       `gorm:"not null"`           // 0-based index into Options
	Status        string    `gorm:"type:varchar(20);default:'pending';not null;index"`
	SubmittedBy   int64     `gorm:"default:0"` // telegram ID, 0 for imported questions
	ReviewedBy    int64     `gorm:"default:0"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// Question approval states
const (
	QuestionStatusPending  = "pending"
	QuestionStatusApproved = "approved"
	QuestionStatusRejected = "rejected"
)

// BeforeSave hook for validation
func (q *Question) BeforeSave(tx *gorm.DB) error {
	if q.CorrectOption < 0 || q.CorrectOption > 3 {
		return gorm.ErrInvalidData
	}

	validStatuses := map[string]bool{
		QuestionStatusPending:  true,
		QuestionStatusApproved: true,
		QuestionStatusRejected: true,
	}
	if !validStatuses[q.Status] {
		return gorm.ErrInvalidData
	}

	return nil
}

func (Question) TableName() string {
	return "questions"
}
