package repositories

import (
	"github.com/mroshb/quiz_bot/internal/models"
	"github.com/mroshb/quiz_bot/pkg/errors"
	"gorm.io/gorm"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// CreateQuestion stores a submitted question in pending state
func (r *QuestionRepository) CreateQuestion(question *models.Question) error {
	if question.Status == "" {
		question.Status = models.QuestionStatusPending
	}

	result := r.db.Create(question)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create question")
	}
	return nil
}

// GetQuestionByID retrieves a question by ID
func (r *QuestionRepository) GetQuestionByID(id uint) (*models.Question, error) {
	var question models.Question
	result := r.db.First(&question, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "question not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get question")
	}

	return &question, nil
}

// GetApprovedByTopic returns the approved question pool for a topic
func (r *QuestionRepository) GetApprovedByTopic(topicID string) ([]models.Question, error) {
	var questions []models.Question
	result := r.db.
		Where("topic_id = ? AND status = ?", topicID, models.QuestionStatusApproved).
		Find(&questions)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get questions")
	}

	return questions, nil
}

// ListPendingQuestions returns questions awaiting admin review, oldest first
func (r *QuestionRepository) ListPendingQuestions(limit int) ([]models.Question, error) {
	var questions []models.Question
	result := r.db.
		Where("status = ?", models.QuestionStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&questions)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list pending questions")
	}

	return questions, nil
}

// SetStatus moves a pending question to approved or rejected
func (r *QuestionRepository) SetStatus(id uint, status string, reviewerID int64) error {
	result := r.db.Model(&models.Question{}).
		Where("id = ? AND status = ?", id, models.QuestionStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update question status")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "pending question not found")
	}
	return nil
}

// CountSubmittedByUser counts questions a user has submitted (any status)
func (r *QuestionRepository) CountSubmittedByUser(telegramID int64) (int64, error) {
	var count int64
	result := r.db.Model(&models.Question{}).
		Where("submitted_by = ?", telegramID).
		Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count questions")
	}
	return count, nil
}
