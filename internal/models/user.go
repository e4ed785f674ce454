package models

import (
	"time"
)

type User struct {
	ID         uint   `gorm:"primaryKey"`
	TelegramID int64  `gorm:"uniqueIndex;not null"`
	Username   string `gorm:"type:varchar(255)"`
	FullName   string `gorm:"type:varchar(255)"`
	HasStart   bool   `gorm:"default:false"` // whether the user ever opened a private chat

	// Aggregate quiz statistics across all rounds
	TotalQuiz    int   `gorm:"default:0;not null"`
	TotalCorrect int   `gorm:"default:0;not null"`
	TotalWrong   int   `gorm:"default:0;not null"`
	TotalPoints  int64 `gorm:"default:0;not null"`
	QuizCreated  int   `gorm:"default:0;not null"`

	LastActivity time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Accuracy returns the percentage of correct answers, one decimal place.
func (u *User) Accuracy() float64 {
	total := u.TotalCorrect + u.TotalWrong
	if total == 0 {
		return 0
	}
	return float64(int(float64(u.TotalCorrect)/float64(total)*1000+0.5)) / 10
}

func (User) TableName() string {
	return "users"
}
