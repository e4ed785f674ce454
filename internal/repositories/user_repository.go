package repositories

import (
	"github.com/mroshb/quiz_bot/internal/models"
	"github.com/mroshb/quiz_bot/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertUser creates the user on first contact or refreshes the profile
// fields on later contacts. Stats columns are never touched here.
func (r *UserRepository) UpsertUser(telegramID int64, username, fullName string) error {
	user := models.User{
		TelegramID: telegramID,
		Username:   username,
		FullName:   fullName,
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"username":      username,
			"full_name":     fullName,
			"last_activity": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&user)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to upsert user")
	}
	return nil
}

// GetUserByTelegramID retrieves a user by Telegram ID
func (r *UserRepository) GetUserByTelegramID(telegramID int64) (*models.User, error) {
	var user models.User
	result := r.db.Where("telegram_id = ?", telegramID).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// UpdateUserStats applies one finished round's deltas to the user's
// aggregate stats and counts the round itself.
func (r *UserRepository) UpdateUserStats(telegramID int64, correctDelta, wrongDelta int, pointsDelta int64) error {
	result := r.db.Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Updates(map[string]interface{}{
			"total_quiz":    gorm.Expr("total_quiz + 1"),
			"total_correct": gorm.Expr("total_correct + ?", correctDelta),
			"total_wrong":   gorm.Expr("total_wrong + ?", wrongDelta),
			"total_points":  gorm.Expr("total_points + ?", pointsDelta),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update user stats")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	return nil
}

// IncrementQuizCreated bumps the creator's quiz-created counter
func (r *UserRepository) IncrementQuizCreated(telegramID int64) error {
	result := r.db.Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Update("quiz_created", gorm.Expr("quiz_created + 1"))
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to increment quiz created")
	}
	return nil
}

// GetAllUsersWithStats returns every user that has quiz history
func (r *UserRepository) GetAllUsersWithStats() ([]models.User, error) {
	var users []models.User
	result := r.db.Where("total_quiz > 0").Find(&users)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list users")
	}
	return users, nil
}

// MarkHasStart records that the user opened a private chat with the bot
func (r *UserRepository) MarkHasStart(telegramID int64) error {
	result := r.db.Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Update("has_start", true)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to mark has_start")
	}
	return nil
}
