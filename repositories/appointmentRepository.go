package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ececomak/Dental-Appointment/cache"
	"github.com/ececomak/Dental-Appointment/database"
	"github.com/ececomak/Dental-Appointment/models"
)

const (
	AppointmentCacheExpiry = 24 * time.Hour

	// Postgres unique_violation; raised by the partial slot index when two
	// bookings race for the same dentist and datetime.
	pgUniqueViolation = "23505"
)

type AppointmentRepository struct {
	cache *cache.Cache
}

func NewAppointmentRepository(cache *cache.Cache) *AppointmentRepository {
	return &AppointmentRepository{cache: cache}
}

// AppointmentPage describes a filtered, paginated listing request.
type AppointmentPage struct {
	Email       string
	From        *time.Time
	Status      *models.AppointmentStatus
	DentistID   *uint
	PatientName string
	Page        int
	PageSize    int
}

// Create inserts the appointment together with its priced line item in one
// transaction. The partial unique index on (dentist_id, appointment_datetime)
// is the ultimate arbiter against double booking; a violation surfaces as
// ErrScheduleConflict.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment, lineItem *models.AppointmentTreatment) error {
	lockKey := fmt.Sprintf("slot_lock:%d_%d", appointment.DentistID, appointment.AppointmentDatetime.Unix())
	release, err := acquireLock(ctx, lockKey)
	if err != nil {
		return err
	}
	defer release()

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(appointment).Error; err != nil {
			return err
		}
		lineItem.AppointmentID = appointment.ID
		return tx.Create(lineItem).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return models.ErrScheduleConflict
		}
		return errors.Wrap(err, "failed to create appointment")
	}

	return r.invalidate(ctx, appointment.ID)
}

// GetByID loads an appointment with the parties needed for ownership checks.
func (r *AppointmentRepository) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.appointmentCacheKey(id)
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var appointment models.Appointment
		if err := json.Unmarshal([]byte(cached), &appointment); err == nil {
			return &appointment, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get appointment from cache: %v", err)
	}

	var appointment models.Appointment
	err = database.DB.
		Preload("Patient.UserAccount").
		Preload("Dentist.UserAccount").
		Preload("Dentist.Clinic").
		First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get appointment")
	}

	if payload, err := json.Marshal(appointment); err == nil {
		if err := r.cache.Set(ctx, cacheKey, payload, AppointmentCacheExpiry); err != nil {
			log.Printf("Failed to set appointment in cache: %v", err)
		}
	}

	return &appointment, nil
}

// UpdateStatus applies a guarded conditional update: the row only changes if
// its status is still one of the permitted source states, which makes the
// check-then-write atomic against concurrent writers. Zero rows affected
// means the state moved underneath the caller.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uint, from []models.AppointmentStatus, to models.AppointmentStatus) error {
	lockKey := fmt.Sprintf("appointment_lock:%d", id)
	release, err := acquireLock(ctx, lockKey)
	if err != nil {
		return err
	}
	defer release()

	result := database.DB.Model(&models.Appointment{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update appointment status")
	}
	if result.RowsAffected == 0 {
		return models.ErrInvalidState
	}

	return r.invalidate(ctx, id)
}

// SetArchived stamps archived_at, guarded on the status still being terminal.
func (r *AppointmentRepository) SetArchived(ctx context.Context, id uint, at time.Time) error {
	lockKey := fmt.Sprintf("appointment_lock:%d", id)
	release, err := acquireLock(ctx, lockKey)
	if err != nil {
		return err
	}
	defer release()

	result := database.DB.Model(&models.Appointment{}).
		Where("id = ? AND status IN ?", id, models.TerminalStatuses()).
		Update("archived_at", at)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to archive appointment")
	}
	if result.RowsAffected == 0 {
		return models.ErrInvalidState
	}

	return r.invalidate(ctx, id)
}

// ExpirePast is the bulk expiry sweep: one conditional UPDATE moves every
// past-due non-terminal appointment to EXPIRED. Idempotent and safe to run
// before any listing query.
func (r *AppointmentRepository) ExpirePast(ctx context.Context, now time.Time) (int64, error) {
	result := database.DB.Model(&models.Appointment{}).
		Where("appointment_datetime < ? AND status NOT IN ?", now, models.TerminalStatuses()).
		Update("status", models.StatusExpired)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to expire past appointments")
	}
	if result.RowsAffected > 0 {
		if err := r.cache.DeleteAll(ctx, "appointment_cache:*"); err != nil {
			log.Printf("Failed to invalidate appointment caches after expiry sweep: %v", err)
		}
	}
	return result.RowsAffected, nil
}

// ExistsAt is the fast-path double-booking check; the unique index remains
// the authority when two requests race past it.
func (r *AppointmentRepository) ExistsAt(ctx context.Context, dentistID uint, at time.Time) (bool, error) {
	var count int64
	err := database.DB.Model(&models.Appointment{}).
		Where("dentist_id = ? AND appointment_datetime = ? AND status NOT IN ?",
			dentistID, at, models.TerminalStatuses()).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check slot occupancy")
	}
	return count > 0, nil
}

// BusyTimes returns the occupied start times of a dentist's day, excluding
// appointments in terminal statuses.
func (r *AppointmentRepository) BusyTimes(ctx context.Context, dentistID uint, dayStart, dayEnd time.Time) ([]time.Time, error) {
	var rows []models.Appointment
	err := database.DB.
		Select("appointment_datetime").
		Where("dentist_id = ? AND appointment_datetime >= ? AND appointment_datetime < ? AND status NOT IN ?",
			dentistID, dayStart, dayEnd, models.TerminalStatuses()).
		Order("appointment_datetime ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to load busy times")
	}

	busy := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		busy = append(busy, row.AppointmentDatetime)
	}
	return busy, nil
}

// PagePatient lists a patient's active (non-archived) appointments, newest
// first, with optional window, status and dentist filters.
func (r *AppointmentRepository) PagePatient(ctx context.Context, page AppointmentPage) ([]models.Appointment, int64, error) {
	query := database.DB.Model(&models.Appointment{}).
		Joins("JOIN patient ON patient.id = appointment.patient_id").
		Joins("JOIN user_account ON user_account.id = patient.user_account_id").
		Where("user_account.email = ?", page.Email).
		Where("appointment.archived_at IS NULL")

	if page.From != nil {
		query = query.Where("appointment.appointment_datetime >= ?", *page.From)
	}
	if page.Status != nil {
		query = query.Where("appointment.status = ?", *page.Status)
	}
	if page.DentistID != nil {
		query = query.Where("appointment.dentist_id = ?", *page.DentistID)
	}

	return r.pageOut(query, page)
}

// PageDentist lists a dentist's active appointments with an optional patient
// name substring filter.
func (r *AppointmentRepository) PageDentist(ctx context.Context, page AppointmentPage) ([]models.Appointment, int64, error) {
	query := database.DB.Model(&models.Appointment{}).
		Joins("JOIN dentist ON dentist.id = appointment.dentist_id").
		Joins("JOIN user_account ON user_account.id = dentist.user_account_id").
		Joins("JOIN patient ON patient.id = appointment.patient_id").
		Where("user_account.email = ?", page.Email).
		Where("appointment.archived_at IS NULL")

	if page.From != nil {
		query = query.Where("appointment.appointment_datetime >= ?", *page.From)
	}
	if page.Status != nil {
		query = query.Where("appointment.status = ?", *page.Status)
	}
	if page.PatientName != "" {
		query = query.Where("LOWER(patient.first_name || ' ' || patient.last_name) LIKE LOWER(?)",
			"%"+page.PatientName+"%")
	}

	return r.pageOut(query, page)
}

func (r *AppointmentRepository) pageOut(query *gorm.DB, page AppointmentPage) ([]models.Appointment, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count appointments")
	}

	pageSize := page.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	// Pages are 1-based in the API.
	offset := page.Page - 1
	if offset < 0 {
		offset = 0
	}

	var appointments []models.Appointment
	err := query.
		Preload("Patient").
		Preload("Dentist").
		Order("appointment.appointment_datetime DESC").
		Offset(offset * pageSize).
		Limit(pageSize).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to page appointments")
	}
	return appointments, total, nil
}

// LineItems returns the treatment line items for a set of appointments.
func (r *AppointmentRepository) LineItems(ctx context.Context, appointmentIDs []uint) ([]models.AppointmentTreatment, error) {
	if len(appointmentIDs) == 0 {
		return nil, nil
	}
	var items []models.AppointmentTreatment
	err := database.DB.
		Preload("Treatment").
		Where("appointment_id IN ?", appointmentIDs).
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to load appointment treatments")
	}
	return items, nil
}

func (r *AppointmentRepository) invalidate(ctx context.Context, id uint) error {
	if err := r.cache.Delete(ctx, r.appointmentCacheKey(id)); err != nil && err != redis.Nil {
		return errors.Wrap(err, "failed to delete appointment cache")
	}
	return nil
}

func (r *AppointmentRepository) appointmentCacheKey(id uint) string {
	return fmt.Sprintf("appointment_cache:%d", id)
}

// acquireLock takes a short redis lock with retries, returning a release
// function. Shared by the appointment and invoice repositories.
func acquireLock(ctx context.Context, lockKey string) (func(), error) {
	lockValue := uuid.New().String()
	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
		if err == nil && locked {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if !locked {
		return nil, fmt.Errorf("failed to acquire lock after retries: %w", err)
	}
	return func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}, nil
}
