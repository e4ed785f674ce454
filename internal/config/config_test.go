package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("BOT_TOKEN", "test_bot_token")
	os.Setenv("DB_PASSWORD", "test_password")
	defer func() {
		os.Unsetenv("BOT_TOKEN")
		os.Unsetenv("DB_PASSWORD")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.BotToken != "test_bot_token" {
		t.Errorf("BotToken = %q, want %q", cfg.BotToken, "test_bot_token")
	}

	if cfg.DBPassword != "test_password" {
		t.Errorf("DBPassword = %q, want %q", cfg.DBPassword, "test_password")
	}

	if cfg.DefaultQuestionCount() != 5 {
		t.Errorf("DefaultQuestionCount() = %d, want 5", cfg.DefaultQuestionCount())
	}

	if cfg.DefaultTimeLimit() != 10 {
		t.Errorf("DefaultTimeLimit() = %d, want 10", cfg.DefaultTimeLimit())
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name: "Missing BOT_TOKEN",
			envVars: map[string]string{
				"DB_PASSWORD": "password",
			},
		},
		{
			name: "Missing DB_PASSWORD",
			envVars: map[string]string{
				"BOT_TOKEN": "token",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()

			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			_, err := LoadConfig()
			if err == nil {
				t.Error("LoadConfig() expected error for missing required field, got nil")
			}
		})
	}
}

func TestLoadConfig_QuizLists(t *testing.T) {
	os.Setenv("BOT_TOKEN", "token")
	os.Setenv("DB_PASSWORD", "password")
	os.Setenv("QUIZ_QUESTION_COUNTS", "3, 7, 12")
	os.Setenv("QUIZ_TIME_LIMITS", "5,25")
	defer func() {
		os.Unsetenv("BOT_TOKEN")
		os.Unsetenv("DB_PASSWORD")
		os.Unsetenv("QUIZ_QUESTION_COUNTS")
		os.Unsetenv("QUIZ_TIME_LIMITS")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if len(cfg.QuizQuestionCounts) != 3 || cfg.QuizQuestionCounts[0] != 3 {
		t.Errorf("QuizQuestionCounts = %v, want [3 7 12]", cfg.QuizQuestionCounts)
	}
	if cfg.DefaultTimeLimit() != 5 {
		t.Errorf("DefaultTimeLimit() = %d, want 5", cfg.DefaultTimeLimit())
	}
}

func TestLoadConfig_InvalidQuizList(t *testing.T) {
	os.Setenv("BOT_TOKEN", "token")
	os.Setenv("DB_PASSWORD", "password")
	os.Setenv("QUIZ_TIME_LIMITS", "ten,20")
	defer func() {
		os.Unsetenv("BOT_TOKEN")
		os.Unsetenv("DB_PASSWORD")
		os.Unsetenv("QUIZ_TIME_LIMITS")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	// Unparseable list falls back to defaults
	if cfg.DefaultTimeLimit() != 10 {
		t.Errorf("DefaultTimeLimit() = %d, want fallback 10", cfg.DefaultTimeLimit())
	}
}

func TestValidateProductionSecurity(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		shouldErr bool
	}{
		{
			name: "Valid production config",
			cfg: &Config{
				AppEnv:         "production",
				DBSSLMode:      "require",
				SuperAdminTgID: 123456789,
			},
			shouldErr: false,
		},
		{
			name: "Development mode - no validation",
			cfg: &Config{
				AppEnv:    "development",
				DBSSLMode: "disable",
			},
			shouldErr: false,
		},
		{
			name: "Production without SSL",
			cfg: &Config{
				AppEnv:         "production",
				DBSSLMode:      "disable",
				SuperAdminTgID: 123456789,
			},
			shouldErr: true,
		},
		{
			name: "Production without super admin",
			cfg: &Config{
				AppEnv:         "production",
				DBSSLMode:      "require",
				SuperAdminTgID: 0,
			},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateProductionSecurity()
			if tt.shouldErr && err == nil {
				t.Error("ValidateProductionSecurity() expected error, got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("ValidateProductionSecurity() unexpected error = %v", err)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "testuser",
		DBPassword: "testpass",
		DBName:     "testdb",
		DBSSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	dsn := cfg.GetDSN()

	if dsn != expected {
		t.Errorf("GetDSN() = %q, want %q", dsn, expected)
	}
}
