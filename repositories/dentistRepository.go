package repositories

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ececomak/Dental-Appointment/cache"
	"github.com/ececomak/Dental-Appointment/database"
	"github.com/ececomak/Dental-Appointment/models"
)

const (
	DentistCacheExpiry = 7 * 24 * time.Hour
	dentistsCacheKey   = "dentists_cache"
)

type DentistRepository struct {
	cache *cache.Cache
}

func NewDentistRepository(cache *cache.Cache) *DentistRepository {
	return &DentistRepository{cache: cache}
}

func (r *DentistRepository) GetByID(ctx context.Context, id uint) (*models.Dentist, error) {
	var dentist models.Dentist
	err := database.DB.
		Preload("UserAccount").
		Preload("Clinic").
		First(&dentist, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get dentist")
	}
	return &dentist, nil
}

// FindByEmail resolves a dentist from the authenticated principal's email.
func (r *DentistRepository) FindByEmail(ctx context.Context, email string) (*models.Dentist, error) {
	var dentist models.Dentist
	err := database.DB.
		Joins("JOIN user_account ON user_account.id = dentist.user_account_id").
		Where("user_account.email = ?", email).
		Preload("UserAccount").
		Preload("Clinic").
		First(&dentist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find dentist by email")
	}
	return &dentist, nil
}

// GetAll returns the dentist directory used by the booking form, cached.
func (r *DentistRepository) GetAll(ctx context.Context) ([]models.Dentist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cached, err := r.cache.Get(ctx, dentistsCacheKey)
	if err == nil {
		var dentists []models.Dentist
		if err := json.Unmarshal([]byte(cached), &dentists); err == nil {
			return dentists, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get dentists from cache: %v", err)
	}

	var dentists []models.Dentist
	err = database.DB.
		Order("last_name ASC, first_name ASC").
		Find(&dentists).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get all dentists")
	}

	if payload, err := json.Marshal(dentists); err == nil {
		if err := r.cache.Set(ctx, dentistsCacheKey, payload, DentistCacheExpiry); err != nil {
			log.Printf("Failed to set dentists in cache: %v", err)
		}
	}

	return dentists, nil
}
