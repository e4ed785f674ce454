package repositories

import (
	"github.com/mroshb/quiz_bot/internal/models"
	"github.com/mroshb/quiz_bot/pkg/errors"
	"gorm.io/gorm"
)

type TopicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// CreateTopic creates a new topic
func (r *TopicRepository) CreateTopic(topic *models.Topic) error {
	result := r.db.Create(topic)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create topic")
	}
	return nil
}

// GetTopicByID retrieves a topic by ID
func (r *TopicRepository) GetTopicByID(topicID string) (*models.Topic, error) {
	var topic models.Topic
	result := r.db.Where("id = ?", topicID).First(&topic)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "topic not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get topic")
	}

	return &topic, nil
}

// ListTopics returns topics, optionally only active ones, ordered by name
func (r *TopicRepository) ListTopics(activeOnly bool) ([]models.Topic, error) {
	var topics []models.Topic
	query := r.db.Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	result := query.Find(&topics)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list topics")
	}

	return topics, nil
}

// SetActive toggles a topic's availability for new quizzes
func (r *TopicRepository) SetActive(topicID string, active bool) error {
	result := r.db.Model(&models.Topic{}).Where("id = ?", topicID).Update("is_active", active)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update topic")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "topic not found")
	}
	return nil
}

// IncrementPlayedCount bumps the topic's played counter
func (r *TopicRepository) IncrementPlayedCount(topicID string) error {
	result := r.db.Model(&models.Topic{}).
		Where("id = ?", topicID).
		Update("played_count", gorm.Expr("played_count + 1"))
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to increment played count")
	}
	return nil
}
