package telegram

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mroshb/quiz_bot/internal/quiz"
)

// MainMenuKeyboard creates the main menu keyboard
func MainMenuKeyboard(isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton

	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(BtnNewQuiz),
	))

	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(BtnMyStats),
		tgbotapi.NewKeyboardButton(BtnLeaderboard),
	))

	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(BtnTopics),
		tgbotapi.NewKeyboardButton(BtnHelp),
	))

	if isAdmin {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🛠 سوالات در انتظار"),
		))
	}

	return tgbotapi.NewReplyKeyboard(rows...)
}

// LobbyKeyboard builds the pre-start keyboard: join, settings rows with
// the current choice ticked, and the start button for the creator.
func LobbyKeyboard(view quiz.LobbyView, counts, limits []int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	joinData := fmt.Sprintf("quiz_join:%s:%d:%s", view.TopicID, view.CreatorID, view.RoomID)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🙋 ورود به کوییز", joinData),
	))

	var countRow []tgbotapi.InlineKeyboardButton
	for _, count := range counts {
		label := strconv.Itoa(count)
		if count == view.QuestionCount {
			label = "✅ " + label
		}
		data := fmt.Sprintf("quiz_qcount:%s:%d:%s:%d", view.TopicID, view.CreatorID, view.RoomID, count)
		countRow = append(countRow, tgbotapi.NewInlineKeyboardButtonData(label, data))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(countRow...))

	var limitRow []tgbotapi.InlineKeyboardButton
	for _, limit := range limits {
		label := strconv.Itoa(limit) + "ث"
		if limit == view.TimeLimit {
			label = "✅ " + label
		}
		data := fmt.Sprintf("quiz_tlimit:%s:%d:%s:%d", view.TopicID, view.CreatorID, view.RoomID, limit)
		limitRow = append(limitRow, tgbotapi.NewInlineKeyboardButtonData(label, data))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(limitRow...))

	startData := fmt.Sprintf("quiz_start:%s:%d:%s:%d:%d",
		view.TopicID, view.CreatorID, view.RoomID, view.QuestionCount, view.TimeLimit)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("▶️ شروع کوییز", startData),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// AnswerKeyboard renders the four positional answer buttons for an open
// question. Options are shown in the message body, buttons carry 1-4.
func AnswerKeyboard(view quiz.QuestionView) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for i := range view.Options {
		data := fmt.Sprintf("quiz_answer:%s:%s:%d", view.RoomID, view.QuestionID, i)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(i+1), data))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(row...))
}

// FinalKeyboard offers a rematch via inline share on the same topic.
func FinalKeyboard(topicName string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonSwitch("🔄 کوییز دوباره", topicName),
		),
	)
}
