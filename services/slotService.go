package services

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/ececomak/Dental-Appointment/models"
	"github.com/ececomak/Dental-Appointment/repositories"
)

// Clinic working window. Appointments may start at 09:00 and must finish by
// 17:00, so the latest permissible start is the window end minus the slot
// length.
const (
	WorkStartMinute = 9 * 60
	WorkEndMinute   = 17 * 60

	// DefaultSlotMinutes applies when a treatment has no usable duration.
	DefaultSlotMinutes = 30
)

// ResolveSlotMinutes returns the treatment's slot length, falling back to the
// clinic default when the catalog entry has none or a non-positive value.
func ResolveSlotMinutes(treatment *models.Treatment) int {
	if treatment != nil && treatment.DefaultDurationMinutes != nil && *treatment.DefaultDurationMinutes > 0 {
		return *treatment.DefaultDurationMinutes
	}
	return DefaultSlotMinutes
}

// AvailableSlots computes the bookable start times for one day: the full grid
// from opening time up to closing minus the slot length, stepping by the slot
// length, minus exact collisions with busy start times, minus anything at or
// before now. Slot identity is exact start-time equality, not interval
// overlap: all appointments of a given duration sit on the same aligned grid.
func AvailableSlots(day time.Time, slotMinutes int, busy []time.Time, now time.Time) []time.Time {
	if slotMinutes <= 0 {
		return nil
	}
	lastStart := WorkEndMinute - slotMinutes
	if lastStart < WorkStartMinute {
		return nil
	}

	occupied := make(map[int64]bool, len(busy))
	for _, b := range busy {
		occupied[b.Unix()] = true
	}

	y, m, d := day.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, day.Location())

	var slots []time.Time
	for minute := WorkStartMinute; minute <= lastStart; minute += slotMinutes {
		t := midnight.Add(time.Duration(minute) * time.Minute)
		if !t.After(now) {
			continue
		}
		if occupied[t.Unix()] {
			continue
		}
		slots = append(slots, t)
	}
	return slots
}

// SlotService computes day availability for the booking form. Availability is
// recomputed on every request: it changes with every booking, so nothing is
// cached.
type SlotService struct {
	appointments *repositories.AppointmentRepository
	dentists     *repositories.DentistRepository
	treatments   *repositories.TreatmentRepository
	now          func() time.Time
}

func NewSlotService(
	appointments *repositories.AppointmentRepository,
	dentists *repositories.DentistRepository,
	treatments *repositories.TreatmentRepository,
) *SlotService {
	return &SlotService{
		appointments: appointments,
		dentists:     dentists,
		treatments:   treatments,
		now:          time.Now,
	}
}

// DaySlots returns the bookable start times for the dentist on the given day,
// sized by the treatment's slot length. Also returns the resolved slot length
// so the client can render the grid.
func (s *SlotService) DaySlots(ctx context.Context, dentistID, treatmentID uint, date string) ([]time.Time, int, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, 0, errors.Wrapf(models.ErrValidation, "malformed date %q", date)
	}

	if _, err := s.dentists.GetByID(ctx, dentistID); err != nil {
		return nil, 0, err
	}

	treatment, err := s.treatments.GetByID(ctx, treatmentID)
	if err != nil {
		return nil, 0, err
	}
	slotMinutes := ResolveSlotMinutes(treatment)

	busy, err := s.appointments.BusyTimes(ctx, dentistID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, 0, err
	}

	return AvailableSlots(day, slotMinutes, busy, s.now()), slotMinutes, nil
}
