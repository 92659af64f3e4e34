package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ececomak/Dental-Appointment/cache"
	"github.com/ececomak/Dental-Appointment/database"
	"github.com/ececomak/Dental-Appointment/models"
)

type PatientRepository struct {
	cache *cache.Cache
}

func NewPatientRepository(cache *cache.Cache) *PatientRepository {
	return &PatientRepository{cache: cache}
}

func (r *PatientRepository) GetByID(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	err := database.DB.Preload("UserAccount").First(&patient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get patient")
	}
	return &patient, nil
}

// FindByEmail resolves a patient from the authenticated principal's email.
func (r *PatientRepository) FindByEmail(ctx context.Context, email string) (*models.Patient, error) {
	var patient models.Patient
	err := database.DB.
		Joins("JOIN user_account ON user_account.id = patient.user_account_id").
		Where("user_account.email = ?", email).
		Preload("UserAccount").
		First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find patient by email")
	}
	return &patient, nil
}
