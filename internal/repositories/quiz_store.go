package repositories

import (
	"encoding/json"

	"github.com/mroshb/quiz_bot/internal/quiz"
	"github.com/mroshb/quiz_bot/pkg/errors"
)

// QuizStore adapts the gorm repositories to the quiz engine's Store
// interface so the engine stays free of database types.
type QuizStore struct {
	topics    *TopicRepository
	questions *QuestionRepository
	users     *UserRepository
}

func NewQuizStore(topics *TopicRepository, questions *QuestionRepository, users *UserRepository) *QuizStore {
	return &QuizStore{
		topics:    topics,
		questions: questions,
		users:     users,
	}
}

func (s *QuizStore) GetTopic(topicID string) (quiz.TopicInfo, error) {
	topic, err := s.topics.GetTopicByID(topicID)
	if err != nil {
		return quiz.TopicInfo{}, err
	}
	return quiz.TopicInfo{
		ID:          topic.ID,
		Name:        topic.Name,
		Description: topic.Description,
		IsActive:    topic.IsActive,
	}, nil
}

func (s *QuizStore) GetApprovedQuestionsByTopic(topicID string) ([]quiz.Question, error) {
	records, err := s.questions.GetApprovedByTopic(topicID)
	if err != nil {
		return nil, err
	}
	out := make([]quiz.Question, 0, len(records))
	for _, record := range records {
		var options []string
		if err := json.Unmarshal([]byte(record.Options), &options); err != nil || len(options) != 4 {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "question has malformed options")
		}
		q := quiz.Question{
			Text:          record.Text,
			CorrectOption: record.CorrectOption,
		}
		copy(q.Options[:], options)
		out = append(out, q)
	}
	return out, nil
}

func (s *QuizStore) IncrementQuizCreated(userID int64) error {
	return s.users.IncrementQuizCreated(userID)
}

func (s *QuizStore) IncrementTopicPlayed(topicID string) error {
	return s.topics.IncrementPlayedCount(topicID)
}

func (s *QuizStore) UpsertUser(userID int64, username, fullName string) error {
	return s.users.UpsertUser(userID, username, fullName)
}

func (s *QuizStore) UpdateUserStats(userID int64, correctDelta, wrongDelta int, pointsDelta int64) error {
	return s.users.UpdateUserStats(userID, correctDelta, wrongDelta, pointsDelta)
}
