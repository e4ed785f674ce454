package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Telegram
	BotToken string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (rate limiting)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Application
	AppEnv         string
	LogLevel       string
	SuperAdminTgID int64

	// Quiz settings. The first value of each list is the default offered
	// on a fresh quiz keyboard.
	QuizQuestionCounts []int
	QuizTimeLimits     []int

	// Rate limiting cooldown per (user, action) in seconds
	CallbackCooldownSeconds int

	// Pre-start settings entries older than this are swept
	SettingsTTLMinutes int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken:   getEnv("BOT_TOKEN", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "quizbot"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "quizbot_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		QuizQuestionCounts: getEnvIntList("QUIZ_QUESTION_COUNTS", []int{5, 10, 15, 20}),
		QuizTimeLimits:     getEnvIntList("QUIZ_TIME_LIMITS", []int{10, 15, 20, 30}),

		CallbackCooldownSeconds: getEnvInt("CALLBACK_COOLDOWN_SECONDS", 2),
		SettingsTTLMinutes:      getEnvInt("QUIZ_SETTINGS_TTL_MINUTES", 60),
	}

	// Parse super admin telegram ID
	superAdminStr := getEnv("SUPER_ADMIN_TELEGRAM_ID", "")
	if superAdminStr != "" {
		id, err := strconv.ParseInt(superAdminStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SUPER_ADMIN_TELEGRAM_ID: %w", err)
		}
		cfg.SuperAdminTgID = id
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if len(c.QuizQuestionCounts) == 0 {
		return fmt.Errorf("QUIZ_QUESTION_COUNTS must not be empty")
	}
	if len(c.QuizTimeLimits) == 0 {
		return fmt.Errorf("QUIZ_TIME_LIMITS must not be empty")
	}
	for _, n := range c.QuizQuestionCounts {
		if n < 1 {
			return fmt.Errorf("QUIZ_QUESTION_COUNTS values must be positive")
		}
	}
	for _, n := range c.QuizTimeLimits {
		if n < 1 {
			return fmt.Errorf("QUIZ_TIME_LIMITS values must be positive")
		}
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.SuperAdminTgID == 0 {
		return fmt.Errorf("SUPER_ADMIN_TELEGRAM_ID must be set in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) DefaultQuestionCount() int {
	return c.QuizQuestionCounts[0]
}

func (c *Config) DefaultTimeLimit() int {
	return c.QuizTimeLimits[0]
}

func (c *Config) GetCallbackCooldown() time.Duration {
	return time.Duration(c.CallbackCooldownSeconds) * time.Second
}

func (c *Config) GetSettingsTTL() time.Duration {
	return time.Duration(c.SettingsTTLMinutes) * time.Minute
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvIntList(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var list []int
	for _, part := range strings.Split(value, ",") {
		intVal, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		list = append(list, intVal)
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
