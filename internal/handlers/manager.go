package handlers

import (
	"github.com/mroshb/quiz_bot/internal/config"
	"github.com/mroshb/quiz_bot/internal/repositories"
	"gorm.io/gorm"
)

// Bot interface to avoid circular dependency
type BotInterface interface {
	SendMessage(chatID int64, text string, keyboard interface{}) int
	EditMessage(chatID int64, messageID int, text string, keyboard interface{})
	AnswerCallbackQuery(queryID string, text string, showAlert bool)
	GetMainMenuKeyboard(isAdmin bool) interface{}
}

type HandlerManager struct {
	Config       *config.Config
	DB           *gorm.DB
	UserRepo     *repositories.UserRepository
	TopicRepo    *repositories.TopicRepository
	QuestionRepo *repositories.QuestionRepository
}

func NewHandlerManager(
	cfg *config.Config,
	db *gorm.DB,
	userRepo *repositories.UserRepository,
	topicRepo *repositories.TopicRepository,
	questionRepo *repositories.QuestionRepository,
) *HandlerManager {
	return &HandlerManager{
		Config:       cfg,
		DB:           db,
		UserRepo:     userRepo,
		TopicRepo:    topicRepo,
		QuestionRepo: questionRepo,
	}
}

func (h *HandlerManager) IsAdmin(userID int64) bool {
	return h.Config.SuperAdminTgID != 0 && userID == h.Config.SuperAdminTgID
}
