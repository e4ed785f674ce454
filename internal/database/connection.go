package database

import (
	"fmt"
	"time"

	"github.com/mroshb/quiz_bot/internal/config"
	"github.com/mroshb/quiz_bot/internal/models"
	"github.com/mroshb/quiz_bot/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		// High performance settings
		SkipDefaultTransaction: true, // Skip wrapping every operation in a transaction
		PrepareStmt:            true, // Cache prepared statements
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// The bot serves many concurrent callback handlers; keep a warm pool
	// but let it scale under load.
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetMaxOpenConns(200)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Info("Database connected successfully")
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Topic{},
		&models.Question{},
	)

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// SeedTopics inserts a starter topic with a handful of approved questions
// so a fresh deployment can run a quiz immediately.
func SeedTopics(db *gorm.DB) error {
	var topicCount int64
	db.Model(&models.Topic{}).Count(&topicCount)
	if topicCount > 0 {
		return nil
	}

	logger.Info("Seeding starter topic and questions...")

	topic := models.Topic{
		Name:        "اطلاعات عمومی",
		Description: "سوالات عمومی از جغرافیا، علوم و تاریخ",
		IsActive:    true,
	}
	if err := db.Create(&topic).Error; err != nil {
		return fmt.Errorf("failed to seed topic: %w", err)
	}

	questions := []models.Question{
		{
			TopicID:       topic.ID,
			Text:          "پایتخت فرانسه کجاست؟",
			Options:       `["پاریس", "لندن", "برلین", "رم"]`,
			CorrectOption: 0,
			Status:        models.QuestionStatusApproved,
		},
		{
			TopicID:       topic.ID,
			Text:          "کدام سیاره به سیاره سرخ معروف است؟",
			Options:       `["زمین", "مریخ", "مشتری", "زهره"]`,
			CorrectOption: 1,
			Status:        models.QuestionStatusApproved,
		},
		{
			TopicID:       topic.ID,
			Text:          "بزرگترین اقیانوس جهان کدام است؟",
			Options:       `["اطلس", "هند", "آرام", "منجمد شمالی"]`,
			CorrectOption: 2,
			Status:        models.QuestionStatusApproved,
		},
		{
			TopicID:       topic.ID,
			Text:          "مخترع تلفن چه کسی بود؟",
			Options:       `["توماس ادیسون", "الکساندر گراهام بل", "نیکولا تسلا", "آیزاک نیوتن"]`,
			CorrectOption: 1,
			Status:        models.QuestionStatusApproved,
		},
		{
			TopicID:       topic.ID,
			Text:          "واحد پول ژاپن چیست؟",
			Options:       `["یوان", "وون", "ین", "رینگیت"]`,
			CorrectOption: 2,
			Status:        models.QuestionStatusApproved,
		},
	}

	if err := db.Create(&questions).Error; err != nil {
		return fmt.Errorf("failed to seed questions: %w", err)
	}

	return nil
}
