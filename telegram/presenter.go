package telegram

import (
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mroshb/quiz_bot/internal/quiz"
	"github.com/mroshb/quiz_bot/pkg/logger"
)

// messageRef points at the shared quiz message. Quizzes started from an
// inline result only have an inline message ID; quizzes in a direct chat
// have a chat/message pair.
type messageRef struct {
	inlineMessageID string
	chatID          int64
	messageID       int
}

// Presenter renders engine views into the shared quiz message. It tracks
// one message per room, learned from the first callback that touches it.
type Presenter struct {
	api    *tgbotapi.BotAPI
	counts []int
	limits []int

	mu   sync.Mutex
	refs map[string]messageRef
}

func NewPresenter(api *tgbotapi.BotAPI, counts, limits []int) *Presenter {
	return &Presenter{
		api:    api,
		counts: counts,
		limits: limits,
		refs:   make(map[string]messageRef),
	}
}

// Track remembers which message a room's quiz lives in. Callbacks from
// inline-result messages carry InlineMessageID; ordinary bot messages a
// chat/message pair.
func (p *Presenter) Track(roomID string, query *tgbotapi.CallbackQuery) {
	ref := messageRef{inlineMessageID: query.InlineMessageID}
	if query.Message != nil {
		ref.chatID = query.Message.Chat.ID
		ref.messageID = query.Message.MessageID
	}
	p.mu.Lock()
	p.refs[roomID] = ref
	p.mu.Unlock()
}

func (p *Presenter) forget(roomID string) {
	p.mu.Lock()
	delete(p.refs, roomID)
	p.mu.Unlock()
}

func (p *Presenter) edit(roomID, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	p.mu.Lock()
	ref, ok := p.refs[roomID]
	p.mu.Unlock()
	if !ok {
		logger.Warn("presenter has no message for room", "room_id", roomID)
		return
	}

	// RTL mark for Persian support
	edit := tgbotapi.EditMessageTextConfig{
		BaseEdit: tgbotapi.BaseEdit{
			InlineMessageID: ref.inlineMessageID,
			ChatID:          ref.chatID,
			MessageID:       ref.messageID,
			ReplyMarkup:     keyboard,
		},
		Text:      "‏" + text,
		ParseMode: tgbotapi.ModeHTML,
	}
	if _, err := p.api.Request(edit); err != nil {
		// re-rendering an identical lobby is a no-op, not a failure
		if strings.Contains(err.Error(), "message is not modified") {
			return
		}
		logger.Error("Failed to edit quiz message", "error", err, "room_id", roomID)
	}
}

// ShowLobby renders a join/settings view after a synchronous engine call.
func (p *Presenter) ShowLobby(view quiz.LobbyView) {
	p.edit(view.RoomID, lobbyText(view), keyboardPtr(LobbyKeyboard(view, p.counts, p.limits)))
}

func (p *Presenter) RoundStarting(roomID string) {
	p.edit(roomID, MsgQuizStarting, nil)
}

func (p *Presenter) QuestionOpened(roomID string, view quiz.QuestionView) {
	p.edit(roomID, questionText(view), keyboardPtr(AnswerKeyboard(view)))
}

func (p *Presenter) IntermissionStarted(roomID string, view quiz.IntermissionView) {
	p.edit(roomID, intermissionText(view), nil)
}

func (p *Presenter) RoundFinished(roomID string, view quiz.FinalView) {
	p.edit(roomID, finalText(view), keyboardPtr(FinalKeyboard(view.TopicName)))
	p.forget(roomID)
}

func keyboardPtr(kb tgbotapi.InlineKeyboardMarkup) *tgbotapi.InlineKeyboardMarkup {
	return &kb
}

func lobbyText(view quiz.LobbyView) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎯 کوییز <b>%s</b>\n\n", view.TopicName))
	sb.WriteString(fmt.Sprintf("❓ تعداد سوال: %d\n", view.QuestionCount))
	sb.WriteString(fmt.Sprintf("⏱ زمان هر سوال: %d ثانیه\n\n", view.TimeLimit))
	if len(view.Participants) == 0 {
		sb.WriteString("هنوز کسی وارد نشده است. با دکمه زیر وارد شوید!")
	} else {
		sb.WriteString(fmt.Sprintf("👥 شرکت‌کنندگان (%d نفر):\n", len(view.Participants)))
		sb.WriteString(quiz.FormatParticipants(view.Participants, view.CreatorID, 10))
	}
	return sb.String()
}

func questionText(view quiz.QuestionView) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("❓ سوال %d از %d (⏱ %d ثانیه)\n\n", view.Number, view.Total, view.TimeLimit))
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n\n", view.Text))
	for i, option := range view.Options {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, option))
	}
	return sb.String()
}

func intermissionText(view quiz.IntermissionView) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⏸ پایان سوال %d از %d\n\n", view.Number, view.Total))
	sb.WriteString("🏆 جدول امتیازات:\n")
	sb.WriteString(quiz.FormatTop(view.Standings, 10))
	sb.WriteString("\nسوال بعدی تا چند لحظه دیگر...")
	return sb.String()
}

func finalText(view quiz.FinalView) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏁 کوییز <b>%s</b> تمام شد!\n\n", view.TopicName))
	sb.WriteString("🏆 نتایج نهایی:\n")
	sb.WriteString(quiz.FormatFull(view.Standings))
	return sb.String()
}
