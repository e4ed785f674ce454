package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mroshb/quiz_bot/internal/models"
)

// ReviewKeyboard creates approve/reject buttons for a pending question
func ReviewKeyboard(questionID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ تایید", fmt.Sprintf("adm_approve_%d", questionID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ رد", fmt.Sprintf("adm_reject_%d", questionID)),
		),
	)
}

// TopicShareKeyboard creates one switch-inline button per topic so the
// user can drop a quiz for that topic into any chat.
func TopicShareKeyboard(topics []models.Topic) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, topic := range topics {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonSwitch("🎯 "+topic.Name, topic.Name),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
