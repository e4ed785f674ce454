package handlers

import (
	"fmt"
	"strings"

	"github.com/mroshb/quiz_bot/internal/quiz"
	"github.com/mroshb/quiz_bot/internal/security"
	"github.com/mroshb/quiz_bot/pkg/logger"
)

const globalBoardSize = 20

// HandleStart registers the user on first /start and shows the menu.
func (h *HandlerManager) HandleStart(userID int64, username, fullName string, bot BotInterface) {
	fullName = security.SanitizeName(fullName)
	if err := h.UserRepo.UpsertUser(userID, username, fullName); err != nil {
		logger.Error("Failed to upsert user on /start", "user_id", userID, "error", err)
	}
	if err := h.UserRepo.MarkHasStart(userID); err != nil {
		logger.Error("Failed to mark has_start", "user_id", userID, "error", err)
	}

	welcome := `👋 سلام! به ربات کوییز خوش آمدید.

برای ساخت کوییز از دکمه «🎯 کوییز جدید» استفاده کنید یا نام ربات را در یک گروه تایپ کنید.`
	bot.SendMessage(userID, welcome, bot.GetMainMenuKeyboard(h.IsAdmin(userID)))
}

// ShowPersonalStats renders the user's lifetime quiz record.
func (h *HandlerManager) ShowPersonalStats(userID int64, bot BotInterface) {
	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil || user.TotalQuiz == 0 {
		bot.SendMessage(userID, "هنوز آماری برای شما ثبت نشده است. یک کوییز بازی کنید!", nil)
		return
	}

	stats := quiz.UserStats{
		TotalQuiz:    user.TotalQuiz,
		TotalCorrect: user.TotalCorrect,
		TotalWrong:   user.TotalWrong,
		TotalPoints:  user.TotalPoints,
	}

	var sb strings.Builder
	sb.WriteString("📊 آمار شما\n\n")
	sb.WriteString(fmt.Sprintf("🎮 کوییزهای بازی‌شده: %d\n", user.TotalQuiz))
	sb.WriteString(fmt.Sprintf("🎯 کوییزهای ساخته‌شده: %d\n", user.QuizCreated))
	sb.WriteString(fmt.Sprintf("✔️ پاسخ درست: %d\n", user.TotalCorrect))
	sb.WriteString(fmt.Sprintf("✖️ پاسخ اشتباه: %d\n", user.TotalWrong))
	sb.WriteString(fmt.Sprintf("🎯 دقت: %.1f%%\n", user.Accuracy()))
	sb.WriteString(fmt.Sprintf("⭐️ مجموع امتیاز: %d\n", user.TotalPoints))
	sb.WriteString(fmt.Sprintf("🏅 امتیاز کلی: %.1f\n", quiz.GlobalScore(stats)))
	if submitted, err := h.QuestionRepo.CountSubmittedByUser(userID); err == nil && submitted > 0 {
		sb.WriteString(fmt.Sprintf("📝 سوالات ارسالی: %d\n", submitted))
	}

	if rank := h.globalRankOf(userID); rank > 0 {
		sb.WriteString(fmt.Sprintf("🏆 رتبه شما: %d\n", rank))
	}

	bot.SendMessage(userID, sb.String(), nil)
}

// ShowGlobalLeaderboard renders the top players across all quizzes.
func (h *HandlerManager) ShowGlobalLeaderboard(userID int64, bot BotInterface) {
	ranked, err := h.globalRanking()
	if err != nil {
		logger.Error("Failed to build global leaderboard", "error", err)
		bot.SendMessage(userID, "خطایی رخ داد. دوباره تلاش کنید.", nil)
		return
	}
	if len(ranked) == 0 {
		bot.SendMessage(userID, "هنوز هیچ کوییزی بازی نشده است!", nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 برترین بازیکنان\n\n")
	for i, u := range ranked {
		if i == globalBoardSize {
			break
		}
		sb.WriteString(fmt.Sprintf("%s %s — %.1f\n", rankBadge(i+1), u.FullName, u.Score))
	}
	if rank := quiz.GlobalRank(userID, ranked); rank > 0 {
		sb.WriteString(fmt.Sprintf("\nرتبه شما: %d از %d", rank, len(ranked)))
	}

	bot.SendMessage(userID, sb.String(), nil)
}

func rankBadge(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", rank)
	}
}

func (h *HandlerManager) globalRanking() ([]quiz.RankedUser, error) {
	users, err := h.UserRepo.GetAllUsersWithStats()
	if err != nil {
		return nil, err
	}
	ranked := make([]quiz.RankedUser, 0, len(users))
	for _, u := range users {
		ranked = append(ranked, quiz.RankedUser{
			UserID:   u.TelegramID,
			FullName: u.FullName,
			Stats: quiz.UserStats{
				TotalQuiz:    u.TotalQuiz,
				TotalCorrect: u.TotalCorrect,
				TotalWrong:   u.TotalWrong,
				TotalPoints:  u.TotalPoints,
			},
		})
	}
	return quiz.BuildGlobalRanking(ranked), nil
}

func (h *HandlerManager) globalRankOf(userID int64) int {
	ranked, err := h.globalRanking()
	if err != nil {
		return 0
	}
	return quiz.GlobalRank(userID, ranked)
}
