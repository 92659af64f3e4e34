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
	TreatmentCacheExpiry = 7 * 24 * time.Hour
	treatmentsCacheKey   = "treatments_cache"
)

type TreatmentRepository struct {
	cache *cache.Cache
}

func NewTreatmentRepository(cache *cache.Cache) *TreatmentRepository {
	return &TreatmentRepository{cache: cache}
}

func (r *TreatmentRepository) GetByID(ctx context.Context, id uint) (*models.Treatment, error) {
	var treatment models.Treatment
	err := database.DB.First(&treatment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get treatment")
	}
	return &treatment, nil
}

// GetAllActive returns the bookable treatment catalog, name-ordered, cached.
// Inactive treatments are excluded here but remain resolvable by GetByID for
// historical line items.
func (r *TreatmentRepository) GetAllActive(ctx context.Context) ([]models.Treatment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cached, err := r.cache.Get(ctx, treatmentsCacheKey)
	if err == nil {
		var treatments []models.Treatment
		if err := json.Unmarshal([]byte(cached), &treatments); err == nil {
			return treatments, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get treatments from cache: %v", err)
	}

	var treatments []models.Treatment
	err = database.DB.
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&treatments).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get active treatments")
	}

	if payload, err := json.Marshal(treatments); err == nil {
		if err := r.cache.Set(ctx, treatmentsCacheKey, payload, TreatmentCacheExpiry); err != nil {
			log.Printf("Failed to set treatments in cache: %v", err)
		}
	}

	return treatments, nil
}
