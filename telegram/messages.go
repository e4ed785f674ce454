package telegram

import (
	"errors"
	"fmt"

	"github.com/mroshb/quiz_bot/internal/quiz"
	apperrors "github.com/mroshb/quiz_bot/pkg/errors"
)

// Main menu buttons
const (
	BtnMyStats     = "📊 آمار من"
	BtnLeaderboard = "🏆 برترین‌ها"
	BtnTopics      = "📚 موضوعات"
	BtnNewQuiz     = "🎯 کوییز جدید"
	BtnHelp        = "❓ راهنما"
)

// Messages
const (
	MsgHelp = `❓ راهنمای ربات کوییز

🎯 ساخت کوییز: نام ربات را در یک گروه تایپ کنید و موضوع را انتخاب کنید.
⚙️ تنظیمات: قبل از شروع، تعداد سوال و زمان هر سوال را انتخاب کنید.
▶️ شروع: با حداقل ۲ شرکت‌کننده، سازنده کوییز را شروع می‌کند.
🏆 امتیاز: پاسخ سریع‌تر امتیاز بیشتری دارد!`

	MsgUnknownInput = "متوجه نشدم! از منوی زیر یک گزینه را انتخاب کنید."

	MsgQuizStarting    = "🚀 کوییز تا چند لحظه دیگر شروع می‌شود، آماده باشید!"
	MsgAnswerCorrect   = "✅ آفرین! پاسخ درست بود."
	MsgAnswerWrong     = "❌ پاسخ اشتباه بود!"
	MsgAnswerTooLate   = "⏰ مهلت پاسخ به این سوال تمام شده است."
	MsgAlreadyAnswered = "شما قبلاً به این سوال پاسخ داده‌اید."
	MsgRateLimited     = "⏳ کمی آهسته‌تر! چند لحظه صبر کنید."
)

// errorText maps engine error codes to the toast the user sees.
func errorText(err error) string {
	switch apperrors.Code(err) {
	case apperrors.ErrCodeForbidden:
		return "فقط سازنده کوییز می‌تواند این کار را انجام دهد."
	case apperrors.ErrCodeNotFound:
		return "این کوییز دیگر فعال نیست."
	case apperrors.ErrCodeAlreadyDone:
		return "این عملیات دیگر ممکن نیست."
	case apperrors.ErrCodeInsufficientPlayers:
		return "برای شروع حداقل ۲ شرکت‌کننده لازم است."
	case apperrors.ErrCodeInsufficientQuestions:
		return "سوال کافی برای این موضوع وجود ندارد."
	case apperrors.ErrCodeInvalidInput:
		return "درخواست نامعتبر بود."
	default:
		return "خطایی رخ داد. دوباره تلاش کنید."
	}
}

// answerToast picks the callback toast for an answer attempt. Repeats
// and closed windows are quiet notices; anything else pops an alert.
func answerToast(result quiz.AnswerResult, err error) (string, bool) {
	if err != nil {
		switch {
		case errors.Is(err, quiz.ErrAlreadyAnswered):
			return MsgAlreadyAnswered, false
		case apperrors.Code(err) == apperrors.ErrCodeAlreadyDone:
			return MsgAnswerTooLate, false
		default:
			return errorText(err), true
		}
	}
	if result.Correct {
		return fmt.Sprintf("%s +%d امتیاز", MsgAnswerCorrect, result.Points), false
	}
	return MsgAnswerWrong, false
}
