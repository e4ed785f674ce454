package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mroshb/quiz_bot/internal/config"
	"github.com/mroshb/quiz_bot/internal/handlers"
	"github.com/mroshb/quiz_bot/internal/middleware"
	"github.com/mroshb/quiz_bot/internal/quiz"
	"github.com/mroshb/quiz_bot/internal/repositories"
	"github.com/mroshb/quiz_bot/internal/security"
	"github.com/mroshb/quiz_bot/pkg/logger"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	config   *config.Config
	db       *gorm.DB
	handlers *handlers.HandlerManager

	engine    *quiz.Engine
	presenter *Presenter
	limiter   *middleware.RateLimiter

	// Worker pool for parallel processing
	workerChans []chan tgbotapi.Update
}

func InitBot(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	topicRepo := repositories.NewTopicRepository(db)
	questionRepo := repositories.NewQuestionRepository(db)
	quizStore := repositories.NewQuizStore(topicRepo, questionRepo, userRepo)

	// Quiz engine and presentation
	registry := quiz.NewRegistry(cfg.GetSettingsTTL())
	presenter := NewPresenter(api, cfg.QuizQuestionCounts, cfg.QuizTimeLimits)
	engine := quiz.NewEngine(registry, quizStore, presenter, quiz.Options{
		QuestionCounts: cfg.QuizQuestionCounts,
		TimeLimits:     cfg.QuizTimeLimits,
	})

	// Initialize handler manager
	handlerMgr := handlers.NewHandlerManager(cfg, db, userRepo, topicRepo, questionRepo)

	bot := &Bot{
		api:         api,
		config:      cfg,
		db:          db,
		handlers:    handlerMgr,
		engine:      engine,
		presenter:   presenter,
		limiter:     middleware.NewRateLimiter(rdb, cfg.GetCallbackCooldown()),
		workerChans: make([]chan tgbotapi.Update, 10), // 10 workers
	}

	// Start workers
	for i := 0; i < 10; i++ {
		bot.workerChans[i] = make(chan tgbotapi.Update, 100)
		go bot.startWorker(bot.workerChans[i])
	}

	// Start update listener
	go bot.startUpdateListener()

	return bot, nil
}

func (b *Bot) startUpdateListener() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for {
		logger.Info("Starting update listener...")
		updates := b.api.GetUpdatesChan(u)

		for update := range updates {
			// Find userID for hashing
			var userID int64
			if update.Message != nil {
				userID = update.Message.From.ID
			} else if update.CallbackQuery != nil {
				userID = update.CallbackQuery.From.ID
			} else if update.InlineQuery != nil {
				userID = update.InlineQuery.From.ID
			}

			if userID != 0 {
				// Hashed dispatch to workers to ensure per-user ordered processing
				workerIdx := userID % int64(len(b.workerChans))
				if workerIdx < 0 {
					workerIdx = -workerIdx
				}
				b.workerChans[workerIdx] <- update
			} else {
				// Non-user related update (if any), process normally
				go b.handleUpdate(update)
			}
		}

		logger.Warn("Update channel closed. Restarting in 5 seconds...")
		time.Sleep(5 * time.Second)
	}
}

func (b *Bot) startWorker(ch chan tgbotapi.Update) {
	for update := range ch {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	if update.Message != nil {
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
	} else if update.InlineQuery != nil {
		b.handleInlineQuery(update.InlineQuery)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Quiz flow lives entirely in inline messages and callbacks; text
	// messages only drive the private-chat menu.
	if !message.Chat.IsPrivate() {
		return
	}

	userID := message.From.ID
	logger.Debug("Received message", "user_id", userID, "text", message.Text)

	if message.IsCommand() {
		b.handleCommand(message)
		return
	}

	switch normalizeButton(message.Text) {
	case normalizeButton(BtnMyStats):
		b.handlers.ShowPersonalStats(userID, b)
	case normalizeButton(BtnLeaderboard):
		b.handlers.ShowGlobalLeaderboard(userID, b)
	case normalizeButton(BtnTopics), normalizeButton(BtnNewQuiz):
		b.handlers.ShowTopics(userID, b)
	case normalizeButton(BtnHelp):
		b.sendMessage(userID, MsgHelp, nil)
	case normalizeButton("🛠 سوالات در انتظار"):
		b.handlers.ShowPendingQuestions(userID, b)
	default:
		b.sendMessage(userID, MsgUnknownInput, MainMenuKeyboard(b.handlers.IsAdmin(userID)))
	}
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	userID := message.From.ID

	switch message.Command() {
	case "start":
		b.handlers.HandleStart(userID, message.From.UserName, displayName(message.From), b)
	case "help":
		b.sendMessage(userID, MsgHelp, nil)
	case "stats":
		b.handlers.ShowPersonalStats(userID, b)
	case "top":
		b.handlers.ShowGlobalLeaderboard(userID, b)
	case "topics":
		b.handlers.ShowTopics(userID, b)
	case "pending":
		b.handlers.ShowPendingQuestions(userID, b)
	default:
		b.sendMessage(userID, MsgUnknownInput, MainMenuKeyboard(b.handlers.IsAdmin(userID)))
	}
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	data := query.Data

	logger.Debug("Received callback", "user_id", userID, "data", data)

	// Admin question review callbacks
	if strings.HasPrefix(data, "adm_approve_") || strings.HasPrefix(data, "adm_reject_") {
		var questionID uint
		approve := strings.HasPrefix(data, "adm_approve_")
		if approve {
			fmt.Sscanf(data, "adm_approve_%d", &questionID)
		} else {
			fmt.Sscanf(data, "adm_reject_%d", &questionID)
		}
		b.handlers.HandleQuestionReview(userID, questionID, approve, query.ID, b)
		return
	}

	cmd, err := ParseCommand(data)
	if err != nil {
		logger.Warn("Unknown callback payload", "user_id", userID, "data", data)
		b.AnswerCallbackQuery(query.ID, "", false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if !b.limiter.Allow(ctx, userID, cmd.Action()) {
		b.AnswerCallbackQuery(query.ID, MsgRateLimited, false)
		return
	}

	switch c := cmd.(type) {
	case JoinCommand:
		b.handleJoin(query, c)
	case QuestionCountCommand:
		b.handleSettings(query, c.RoomID, func() (quiz.LobbyView, error) {
			return b.engine.ChangeQuestionCount(c.RoomID, c.TopicID, c.CreatorID, userID, c.Count)
		})
	case TimeLimitCommand:
		b.handleSettings(query, c.RoomID, func() (quiz.LobbyView, error) {
			return b.engine.ChangeTimeLimit(c.RoomID, c.TopicID, c.CreatorID, userID, c.Limit)
		})
	case StartCommand:
		b.handleStart(query, c)
	case AnswerCommand:
		b.handleAnswer(query, c)
	}
}

func (b *Bot) handleJoin(query *tgbotapi.CallbackQuery, cmd JoinCommand) {
	b.presenter.Track(cmd.RoomID, query)

	view, err := b.engine.Join(quiz.JoinRequest{
		RoomID:   cmd.RoomID,
		TopicID:  cmd.TopicID,
		Creator:  cmd.CreatorID,
		UserID:   query.From.ID,
		Username: query.From.UserName,
		FullName: displayName(query.From),
	})
	if err != nil {
		b.AnswerCallbackQuery(query.ID, errorText(err), true)
		return
	}
	b.presenter.ShowLobby(view)
	b.AnswerCallbackQuery(query.ID, "🙋 وارد کوییز شدید!", false)
}

func (b *Bot) handleSettings(query *tgbotapi.CallbackQuery, roomID string, change func() (quiz.LobbyView, error)) {
	b.presenter.Track(roomID, query)

	view, err := change()
	if err != nil {
		b.AnswerCallbackQuery(query.ID, errorText(err), true)
		return
	}
	b.presenter.ShowLobby(view)
	b.AnswerCallbackQuery(query.ID, "", false)
}

func (b *Bot) handleStart(query *tgbotapi.CallbackQuery, cmd StartCommand) {
	b.presenter.Track(cmd.RoomID, query)

	if err := b.engine.Start(cmd.RoomID, query.From.ID, cmd.QuestionCount, cmd.TimeLimit); err != nil {
		b.AnswerCallbackQuery(query.ID, errorText(err), true)
		return
	}
	b.AnswerCallbackQuery(query.ID, "🚀 کوییز شروع شد!", false)
}

func (b *Bot) handleAnswer(query *tgbotapi.CallbackQuery, cmd AnswerCommand) {
	result, err := b.engine.Answer(cmd.RoomID, cmd.QuestionID, query.From.ID, cmd.Option)
	text, alert := answerToast(result, err)
	b.AnswerCallbackQuery(query.ID, text, alert)
}

// handleInlineQuery offers one quiz article per active topic. Sending a
// result posts the lobby message; the room itself is created lazily on
// the first join.
func (b *Bot) handleInlineQuery(query *tgbotapi.InlineQuery) {
	topics, err := b.handlers.TopicRepo.ListTopics(true)
	if err != nil {
		logger.Error("Failed to list topics for inline query", "error", err)
		return
	}

	filter := strings.TrimSpace(query.Query)
	var results []interface{}
	for _, topic := range topics {
		if filter != "" && !strings.Contains(topic.Name, filter) {
			continue
		}

		roomID := uuid.NewString()[:8]
		view := quiz.LobbyView{
			RoomID:        roomID,
			TopicID:       topic.ID,
			TopicName:     topic.Name,
			CreatorID:     query.From.ID,
			QuestionCount: b.config.DefaultQuestionCount(),
			TimeLimit:     b.config.DefaultTimeLimit(),
		}

		article := tgbotapi.NewInlineQueryResultArticleHTML(
			topic.ID+":"+roomID, "🎯 "+topic.Name, "‏"+lobbyText(view))
		article.Description = topic.Description
		keyboard := LobbyKeyboard(view, b.config.QuizQuestionCounts, b.config.QuizTimeLimits)
		article.ReplyMarkup = &keyboard
		results = append(results, article)

		if len(results) == 20 {
			break
		}
	}

	inlineConf := tgbotapi.InlineConfig{
		InlineQueryID: query.ID,
		Results:       results,
		CacheTime:     0,
		IsPersonal:    true,
	}
	if _, err := b.api.Request(inlineConf); err != nil {
		logger.Error("Failed to answer inline query", "error", err, "query_id", query.ID)
	}
}

func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) int {
	// Add RTL mark for Persian support
	rtlText := "‏" + text
	msg := tgbotapi.NewMessage(chatID, rtlText)
	msg.ParseMode = tgbotapi.ModeHTML

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.InlineKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.ReplyKeyboardRemove:
		msg.ReplyMarkup = kb
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(msg)
		if err != nil {
			logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

			// If it's a network error, wait and retry
			if strings.Contains(err.Error(), "connection reset") ||
				strings.Contains(err.Error(), "timeout") ||
				strings.Contains(err.Error(), "network is unreachable") {
				time.Sleep(time.Duration(i+1) * time.Second)
				continue
			}
			return 0 // Non-network error, don't retry
		}
		return sentMsg.MessageID // Success
	}
	return 0 // All retries failed
}

func (b *Bot) SendMessage(chatID int64, text string, keyboard interface{}) int {
	return b.sendMessage(chatID, text, keyboard)
}

func (b *Bot) EditMessage(chatID int64, messageID int, text string, keyboard interface{}) {
	// Add RTL mark
	rtlText := "‏" + text
	msg := tgbotapi.NewEditMessageText(chatID, messageID, rtlText)
	msg.ParseMode = tgbotapi.ModeHTML

	if keyboard != nil {
		if kb, ok := keyboard.(tgbotapi.InlineKeyboardMarkup); ok {
			msg.ReplyMarkup = &kb
		}
	}

	if _, err := b.api.Send(msg); err != nil {
		logger.Error("Failed to edit message", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}

func (b *Bot) AnswerCallbackQuery(queryID string, text string, showAlert bool) {
	callback := tgbotapi.NewCallback(queryID, text)
	callback.ShowAlert = showAlert
	if _, err := b.api.Request(callback); err != nil {
		logger.Error("Failed to answer callback query", "error", err, "query_id", queryID)
	}
}

func (b *Bot) GetMainMenuKeyboard(isAdmin bool) interface{} {
	return MainMenuKeyboard(isAdmin)
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	logger.Info("Bot stopped receiving updates")
}

func normalizeButton(s string) string {
	return strings.ReplaceAll(s, "‌", "")
}

func displayName(user *tgbotapi.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.UserName
	}
	return security.SanitizeName(name)
}
