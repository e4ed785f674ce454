package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mroshb/quiz_bot/internal/models"
	"github.com/mroshb/quiz_bot/pkg/logger"
)

const pendingReviewBatch = 5

// ShowPendingQuestions sends the oldest pending submissions for review.
func (h *HandlerManager) ShowPendingQuestions(adminID int64, bot BotInterface) {
	if !h.IsAdmin(adminID) {
		bot.SendMessage(adminID, "⛔️ این بخش فقط برای مدیر ربات است.", nil)
		return
	}

	pending, err := h.QuestionRepo.ListPendingQuestions(pendingReviewBatch)
	if err != nil {
		logger.Error("Failed to list pending questions", "error", err)
		bot.SendMessage(adminID, "خطایی رخ داد. دوباره تلاش کنید.", nil)
		return
	}
	if len(pending) == 0 {
		bot.SendMessage(adminID, "✅ هیچ سوالی در انتظار بررسی نیست.", nil)
		return
	}

	for _, q := range pending {
		bot.SendMessage(adminID, formatPendingQuestion(&q), ReviewKeyboard(q.ID))
	}
}

func formatPendingQuestion(q *models.Question) string {
	var options []string
	if err := json.Unmarshal([]byte(q.Options), &options); err != nil {
		options = nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📝 سوال #%d\n\n%s\n\n", q.ID, q.Text))
	for i, option := range options {
		marker := "▫️"
		if i == q.CorrectOption {
			marker = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s\n", marker, i+1, option))
	}
	sb.WriteString(fmt.Sprintf("\nفرستنده: %d", q.SubmittedBy))
	return sb.String()
}

// HandleQuestionReview approves or rejects one pending question.
func (h *HandlerManager) HandleQuestionReview(adminID int64, questionID uint, approve bool, queryID string, bot BotInterface) {
	if !h.IsAdmin(adminID) {
		bot.AnswerCallbackQuery(queryID, "⛔️ فقط مدیر ربات.", true)
		return
	}

	status := models.QuestionStatusApproved
	toast := "✅ سوال تایید شد."
	if !approve {
		status = models.QuestionStatusRejected
		toast = "❌ سوال رد شد."
	}

	if err := h.QuestionRepo.SetStatus(questionID, status, adminID); err != nil {
		logger.Error("Failed to review question",
			"question_id", questionID, "status", status, "error", err)
		bot.AnswerCallbackQuery(queryID, "این سوال قبلاً بررسی شده است.", true)
		return
	}

	logger.Info("Question reviewed", "question_id", questionID, "status", status, "admin_id", adminID)
	bot.AnswerCallbackQuery(queryID, toast, false)
}
