package handlers

import (
	"fmt"
	"strings"

	"github.com/mroshb/quiz_bot/pkg/logger"
)

// ShowTopics lists active topics with their play counts and an inline
// share button so the user can post a quiz into any chat.
func (h *HandlerManager) ShowTopics(userID int64, bot BotInterface) {
	topics, err := h.TopicRepo.ListTopics(true)
	if err != nil {
		logger.Error("Failed to list topics", "error", err)
		bot.SendMessage(userID, "خطایی رخ داد. دوباره تلاش کنید.", nil)
		return
	}
	if len(topics) == 0 {
		bot.SendMessage(userID, "هنوز موضوعی ثبت نشده است.", nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("📚 موضوعات فعال:\n\n")
	for i, topic := range topics {
		sb.WriteString(fmt.Sprintf("%d. %s (%d بار بازی شده)\n", i+1, topic.Name, topic.PlayedCount))
	}
	sb.WriteString("\nبرای ساخت کوییز، یک موضوع را انتخاب کنید:")

	bot.SendMessage(userID, sb.String(), TopicShareKeyboard(topics))
}
