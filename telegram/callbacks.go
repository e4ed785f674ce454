package telegram

import (
	"strconv"
	"strings"

	apperrors "github.com/mroshb/quiz_bot/pkg/errors"
)

// Callback payload grammar. Every quiz button carries one of:
//
//	quiz_join:<topic>:<creator>:<room>
//	quiz_start:<topic>:<creator>:<room>:<count>:<limit>
//	quiz_qcount:<topic>:<creator>:<room>:<count>
//	quiz_tlimit:<topic>:<creator>:<room>:<limit>
//	quiz_answer:<room>:<question>:<option>
const (
	actionJoin      = "quiz_join"
	actionStart     = "quiz_start"
	actionQCount    = "quiz_qcount"
	actionTimeLimit = "quiz_tlimit"
	actionAnswer    = "quiz_answer"
)

// Command is one decoded quiz callback. Action() keys the rate limiter.
type Command interface {
	Action() string
}

type JoinCommand struct {
	TopicID   string
	CreatorID int64
	RoomID    string
}

func (JoinCommand) Action() string { return actionJoin }

type StartCommand struct {
	TopicID       string
	CreatorID     int64
	RoomID        string
	QuestionCount int
	TimeLimit     int
}

func (StartCommand) Action() string { return actionStart }

type QuestionCountCommand struct {
	TopicID   string
	CreatorID int64
	RoomID    string
	Count     int
}

func (QuestionCountCommand) Action() string { return actionQCount }

type TimeLimitCommand struct {
	TopicID   string
	CreatorID int64
	RoomID    string
	Limit     int
}

func (TimeLimitCommand) Action() string { return actionTimeLimit }

type AnswerCommand struct {
	RoomID     string
	QuestionID string
	Option     int
}

func (AnswerCommand) Action() string { return actionAnswer }

func invalidPayload(data string) error {
	return apperrors.New(apperrors.ErrCodeInvalidInput, "malformed callback payload: "+data)
}

// ParseCommand decodes a quiz callback payload into its typed command.
// Unknown actions and malformed fields return INVALID_INPUT.
func ParseCommand(data string) (Command, error) {
	parts := strings.Split(data, ":")
	switch parts[0] {
	case actionJoin:
		if len(parts) != 4 {
			return nil, invalidPayload(data)
		}
		creator, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return nil, invalidPayload(data)
		}
		return JoinCommand{TopicID: parts[1], CreatorID: creator, RoomID: parts[3]}, nil

	case actionStart:
		if len(parts) != 6 {
			return nil, invalidPayload(data)
		}
		creator, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return nil, invalidPayload(data)
		}
		count, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, invalidPayload(data)
		}
		limit, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, invalidPayload(data)
		}
		return StartCommand{
			TopicID:       parts[1],
			CreatorID:     creator,
			RoomID:        parts[3],
			QuestionCount: count,
			TimeLimit:     limit,
		}, nil

	case actionQCount:
		if len(parts) != 5 {
			return nil, invalidPayload(data)
		}
		creator, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return nil, invalidPayload(data)
		}
		count, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, invalidPayload(data)
		}
		return QuestionCountCommand{TopicID: parts[1], CreatorID: creator, RoomID: parts[3], Count: count}, nil

	case actionTimeLimit:
		if len(parts) != 5 {
			return nil, invalidPayload(data)
		}
		creator, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return nil, invalidPayload(data)
		}
		limit, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, invalidPayload(data)
		}
		return TimeLimitCommand{TopicID: parts[1], CreatorID: creator, RoomID: parts[3], Limit: limit}, nil

	case actionAnswer:
		if len(parts) != 4 {
			return nil, invalidPayload(data)
		}
		option, err := strconv.Atoi(parts[3])
		if err != nil || option < 0 || option > 3 {
			return nil, invalidPayload(data)
		}
		return AnswerCommand{RoomID: parts[1], QuestionID: parts[2], Option: option}, nil
	}
	return nil, invalidPayload(data)
}
