package services

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ececomak/Dental-Appointment/models"
	"github.com/ececomak/Dental-Appointment/repositories"
)

// AttendanceWindow is how far ahead of the appointment a patient may confirm
// attendance.
const AttendanceWindow = 24 * time.Hour

// Accepted request datetime layouts (ISO local, with or without seconds).
var datetimeLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04"}

// ParseAppointmentDatetime parses an ISO local datetime string.
func ParseAppointmentDatetime(raw string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrapf(models.ErrValidation, "malformed datetime %q", raw)
}

// ValidateBookingTime enforces the booking-time rules: strictly in the
// future, inside the clinic window adjusted for the slot length, and aligned
// to the slot grid (minutes of day divisible by the slot length).
func ValidateBookingTime(dt time.Time, slotMinutes int, now time.Time) error {
	if !dt.After(now) {
		return errors.Wrap(models.ErrValidation, "appointment datetime must be in the future")
	}

	if dt.Second() != 0 || dt.Nanosecond() != 0 {
		return models.ErrMisalignedSlot
	}

	minuteOfDay := dt.Hour()*60 + dt.Minute()
	lastStart := WorkEndMinute - slotMinutes
	if minuteOfDay < WorkStartMinute || minuteOfDay > lastStart {
		return models.ErrOutOfWindow
	}
	if minuteOfDay%slotMinutes != 0 {
		return models.ErrMisalignedSlot
	}
	return nil
}

// CheckAttendanceWindow enforces the patient-confirmation window: the
// appointment must still be in the future, and no more than 24 hours away.
func CheckAttendanceWindow(dt, now time.Time) error {
	if !dt.After(now) {
		return errors.Wrap(models.ErrInvalidState, "appointment datetime has already passed")
	}
	if dt.After(now.Add(AttendanceWindow)) {
		return errors.Wrap(models.ErrOutOfWindow, "confirmation opens 24 hours before the appointment")
	}
	return nil
}

// AppointmentService owns the appointment lifecycle: booking, the
// role-gated status transitions, archival, the expiry sweep and the filtered
// listings.
type AppointmentService struct {
	appointments *repositories.AppointmentRepository
	patients     *repositories.PatientRepository
	dentists     *repositories.DentistRepository
	treatments   *repositories.TreatmentRepository
	invoices     *repositories.InvoiceRepository
	now          func() time.Time
}

func NewAppointmentService(
	appointments *repositories.AppointmentRepository,
	patients *repositories.PatientRepository,
	dentists *repositories.DentistRepository,
	treatments *repositories.TreatmentRepository,
	invoices *repositories.InvoiceRepository,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		patients:     patients,
		dentists:     dentists,
		treatments:   treatments,
		invoices:     invoices,
		now:          time.Now,
	}
}

// Book creates a SCHEDULED appointment for the authenticated patient together
// with a single line item priced from the treatment's current default price.
// The price is snapshotted here; later catalog changes do not touch it.
func (s *AppointmentService) Book(ctx context.Context, patientEmail string, dentistID, treatmentID uint, datetimeRaw string) (*models.Appointment, error) {
	patient, err := s.patients.FindByEmail(ctx, patientEmail)
	if err != nil {
		return nil, err
	}

	dentist, err := s.dentists.GetByID(ctx, dentistID)
	if err != nil {
		return nil, err
	}

	treatment, err := s.treatments.GetByID(ctx, treatmentID)
	if err != nil {
		return nil, err
	}
	if !treatment.Active {
		return nil, errors.Wrapf(models.ErrValidation, "treatment %q is no longer offered", treatment.Name)
	}

	dt, err := ParseAppointmentDatetime(datetimeRaw)
	if err != nil {
		return nil, err
	}

	slotMinutes := ResolveSlotMinutes(treatment)
	if err := ValidateBookingTime(dt, slotMinutes, s.now()); err != nil {
		return nil, err
	}

	// Fast-path conflict check; the partial unique index decides races.
	occupied, err := s.appointments.ExistsAt(ctx, dentistID, dt)
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, models.ErrScheduleConflict
	}

	appointment := &models.Appointment{
		PatientID:           patient.ID,
		DentistID:           dentist.ID,
		ClinicID:            dentist.ClinicID,
		AppointmentDatetime: dt,
		Status:              models.StatusScheduled,
	}

	quantity := 1
	lineItem := &models.AppointmentTreatment{
		TreatmentID: treatment.ID,
		Quantity:    quantity,
		UnitPrice:   treatment.DefaultPrice,
		TotalPrice:  treatment.DefaultPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}

	if err := s.appointments.Create(ctx, appointment, lineItem); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Confirm moves SCHEDULED to CONFIRMED, dentist-only.
func (s *AppointmentService) Confirm(ctx context.Context, dentistEmail string, id uint) error {
	return s.dentistTransition(ctx, dentistEmail, id, models.OpDentistConfirm)
}

// Cancel moves any non-terminal appointment to CANCELLED, dentist-only.
func (s *AppointmentService) Cancel(ctx context.Context, dentistEmail string, id uint) error {
	return s.dentistTransition(ctx, dentistEmail, id, models.OpDentistCancel)
}

// Complete moves CONFIRMED or PATIENT_CONFIRMED to COMPLETED, dentist-only,
// and generates the invoice if the appointment has none yet (idempotent).
func (s *AppointmentService) Complete(ctx context.Context, dentistEmail string, id uint) error {
	if err := s.dentistTransition(ctx, dentistEmail, id, models.OpDentistComplete); err != nil {
		return err
	}
	_, err := s.invoices.GenerateForAppointment(ctx, id, s.now())
	return err
}

func (s *AppointmentService) dentistTransition(ctx context.Context, dentistEmail string, id uint, op models.TransitionOp) error {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(dentistEmail, dentistOwnerEmail(appointment)); err != nil {
		return err
	}
	target, err := models.NextStatus(appointment.Status, op)
	if err != nil {
		return err
	}
	return s.appointments.UpdateStatus(ctx, id, models.AllowedFrom(op), target)
}

// ConfirmAttendance is the patient's own confirmation, only valid inside the
// 24-hour window before the appointment.
func (s *AppointmentService) ConfirmAttendance(ctx context.Context, patientEmail string, id uint) error {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(patientEmail, patientOwnerEmail(appointment)); err != nil {
		return err
	}
	if err := CheckAttendanceWindow(appointment.AppointmentDatetime, s.now()); err != nil {
		return err
	}
	target, err := models.NextStatus(appointment.Status, models.OpPatientConfirm)
	if err != nil {
		return err
	}
	return s.appointments.UpdateStatus(ctx, id, models.AllowedFrom(models.OpPatientConfirm), target)
}

// CancelAsPatient cancels the patient's own future appointment, only from
// SCHEDULED or PATIENT_CONFIRMED.
func (s *AppointmentService) CancelAsPatient(ctx context.Context, patientEmail string, id uint) error {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(patientEmail, patientOwnerEmail(appointment)); err != nil {
		return err
	}
	if !appointment.AppointmentDatetime.After(s.now()) {
		return errors.Wrap(models.ErrInvalidState, "past appointments cannot be cancelled")
	}
	target, err := models.NextStatus(appointment.Status, models.OpPatientCancel)
	if err != nil {
		return err
	}
	return s.appointments.UpdateStatus(ctx, id, models.AllowedFrom(models.OpPatientCancel), target)
}

// Archive hides a terminal appointment from the owner's listings. An attached
// invoice that is UNPAID or PARTIALLY_PAID blocks archival with
// ErrUnpaidInvoice, a soft outcome the handler reports as a reason code.
func (s *AppointmentService) Archive(ctx context.Context, principalEmail, role string, id uint) error {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	owner := patientOwnerEmail(appointment)
	if role == models.RoleDentist {
		owner = dentistOwnerEmail(appointment)
	}
	if err := requireOwner(principalEmail, owner); err != nil {
		return err
	}

	if !appointment.Status.IsTerminal() {
		return errors.Wrap(models.ErrInvalidState, "active appointments cannot be archived")
	}

	invoice, err := s.invoices.FindByAppointment(ctx, id)
	if err != nil {
		return err
	}
	if invoice != nil && invoice.Status.BlocksArchival() {
		return models.ErrUnpaidInvoice
	}

	return s.appointments.SetArchived(ctx, id, s.now())
}

// ListQuery carries the home-view filters.
type ListQuery struct {
	HidePast    bool
	Days        int
	Status      string
	DentistID   *uint
	PatientName string
	Page        int
}

// AppointmentRow is one listing entry enriched with the joined treatment
// names and the invoice reference, when one exists.
type AppointmentRow struct {
	models.Appointment
	TreatmentNames string                `json:"treatment_names"`
	InvoiceID      *uint                 `json:"invoice_id"`
	InvoiceStatus  *models.InvoiceStatus `json:"invoice_status"`
}

// AppointmentListing is one page of results.
type AppointmentListing struct {
	Items      []AppointmentRow `json:"items"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	Total      int64            `json:"total"`
}

// ListForPatient returns the patient's home view. The expiry sweep runs
// first so the page never shows stale SCHEDULED rows for the past.
func (s *AppointmentService) ListForPatient(ctx context.Context, email string, q ListQuery) (*AppointmentListing, error) {
	page, err := s.preparePage(ctx, email, q)
	if err != nil {
		return nil, err
	}
	page.DentistID = q.DentistID

	appointments, total, err := s.appointments.PagePatient(ctx, *page)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, appointments, total, q.Page)
}

// ListForDentist returns the dentist's home view.
func (s *AppointmentService) ListForDentist(ctx context.Context, email string, q ListQuery) (*AppointmentListing, error) {
	page, err := s.preparePage(ctx, email, q)
	if err != nil {
		return nil, err
	}
	page.PatientName = q.PatientName

	appointments, total, err := s.appointments.PageDentist(ctx, *page)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, appointments, total, q.Page)
}

func (s *AppointmentService) preparePage(ctx context.Context, email string, q ListQuery) (*repositories.AppointmentPage, error) {
	if _, err := s.appointments.ExpirePast(ctx, s.now()); err != nil {
		return nil, err
	}

	page := repositories.AppointmentPage{
		Email:    email,
		Page:     q.Page,
		PageSize: 10,
	}

	if q.HidePast {
		days := q.Days
		if days < 1 {
			days = 1
		}
		from := s.now().AddDate(0, 0, -days)
		page.From = &from
	}

	if raw := strings.TrimSpace(q.Status); raw != "" {
		status := models.AppointmentStatus(strings.ToUpper(raw))
		switch status {
		case models.StatusScheduled, models.StatusConfirmed, models.StatusPatientConfirmed,
			models.StatusCompleted, models.StatusCancelled, models.StatusExpired:
			page.Status = &status
		default:
			return nil, errors.Wrapf(models.ErrValidation, "unknown status filter %q", raw)
		}
	}

	return &page, nil
}

func (s *AppointmentService) enrich(ctx context.Context, appointments []models.Appointment, total int64, pageNo int) (*AppointmentListing, error) {
	ids := make([]uint, 0, len(appointments))
	for _, a := range appointments {
		ids = append(ids, a.ID)
	}

	items, err := s.appointments.LineItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	namesByAppointment := make(map[uint]string, len(appointments))
	for _, item := range items {
		name := item.Treatment.Name
		if existing := namesByAppointment[item.AppointmentID]; existing != "" {
			if !strings.Contains(existing, name) {
				namesByAppointment[item.AppointmentID] = existing + ", " + name
			}
		} else {
			namesByAppointment[item.AppointmentID] = name
		}
	}

	rows := make([]AppointmentRow, 0, len(appointments))
	for _, a := range appointments {
		row := AppointmentRow{Appointment: a, TreatmentNames: namesByAppointment[a.ID]}
		invoice, err := s.invoices.FindByAppointment(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		if invoice != nil {
			row.InvoiceID = &invoice.ID
			row.InvoiceStatus = &invoice.Status
		}
		rows = append(rows, row)
	}

	totalPages := int((total + 9) / 10)
	return &AppointmentListing{Items: rows, Page: pageNo, TotalPages: totalPages, Total: total}, nil
}
