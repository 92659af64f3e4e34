package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ececomak/Dental-Appointment/database"
	"github.com/ececomak/Dental-Appointment/models"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByEmail looks up an active login account.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.UserAccount, error) {
	var account models.UserAccount
	err := database.DB.First(&account, "email = ? AND is_active = ?", email, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find user account")
	}
	return &account, nil
}
