package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// AppointmentStatus enumerates the appointment lifecycle states.
type AppointmentStatus string

const (
	StatusScheduled        AppointmentStatus = "SCHEDULED"
	StatusConfirmed        AppointmentStatus = "CONFIRMED"
	StatusPatientConfirmed AppointmentStatus = "PATIENT_CONFIRMED"
	StatusCompleted        AppointmentStatus = "COMPLETED"
	StatusCancelled        AppointmentStatus = "CANCELLED"
	StatusExpired          AppointmentStatus = "EXPIRED"
)

// IsTerminal reports whether no further status transition is permitted.
// Terminal appointments can only be archived.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusExpired
}

// TerminalStatuses are excluded from schedule-conflict and busy-slot checks:
// a cancelled, completed or expired appointment no longer occupies its slot.
func TerminalStatuses() []AppointmentStatus {
	return []AppointmentStatus{StatusCancelled, StatusCompleted, StatusExpired}
}

// TransitionOp names a status-changing operation together with the role that
// performs it.
type TransitionOp string

const (
	OpDentistConfirm  TransitionOp = "dentist-confirm"
	OpDentistCancel   TransitionOp = "dentist-cancel"
	OpDentistComplete TransitionOp = "dentist-complete"
	OpPatientConfirm  TransitionOp = "patient-confirm-attendance"
	OpPatientCancel   TransitionOp = "patient-cancel"
)

type transitionRule struct {
	from map[AppointmentStatus]bool
	to   AppointmentStatus
}

// transitions is the single authoritative transition table: which operation
// may move an appointment from which state, and where it lands.
var transitions = map[TransitionOp]transitionRule{
	OpDentistConfirm: {
		from: map[AppointmentStatus]bool{StatusScheduled: true},
		to:   StatusConfirmed,
	},
	OpDentistCancel: {
		from: map[AppointmentStatus]bool{
			StatusScheduled:        true,
			StatusConfirmed:        true,
			StatusPatientConfirmed: true,
		},
		to: StatusCancelled,
	},
	OpDentistComplete: {
		from: map[AppointmentStatus]bool{
			StatusConfirmed:        true,
			StatusPatientConfirmed: true,
		},
		to: StatusCompleted,
	},
	OpPatientConfirm: {
		from: map[AppointmentStatus]bool{
			StatusScheduled: true,
			StatusConfirmed: true,
		},
		to: StatusPatientConfirmed,
	},
	OpPatientCancel: {
		from: map[AppointmentStatus]bool{
			StatusScheduled:        true,
			StatusPatientConfirmed: true,
		},
		to: StatusCancelled,
	},
}

// NextStatus resolves the target status for applying op to current, or
// ErrInvalidState when the transition table does not permit it.
func NextStatus(current AppointmentStatus, op TransitionOp) (AppointmentStatus, error) {
	rule, ok := transitions[op]
	if !ok {
		return "", errors.Wrapf(ErrInvalidState, "unknown operation %q", op)
	}
	if !rule.from[current] {
		return "", errors.Wrapf(ErrInvalidState, "%s not permitted from %s", op, current)
	}
	return rule.to, nil
}

// AllowedFrom returns the set of states op may be applied from, in a stable
// order suitable for a guarded conditional update.
func AllowedFrom(op TransitionOp) []AppointmentStatus {
	rule, ok := transitions[op]
	if !ok {
		return nil
	}
	ordered := []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusPatientConfirmed}
	var out []AppointmentStatus
	for _, s := range ordered {
		if rule.from[s] {
			out = append(out, s)
		}
	}
	return out
}

// Appointment model. ArchivedAt null means the appointment is active and
// listed; once set, the row disappears from the home views. Archival requires
// a terminal status and a settled (or absent) invoice.
type Appointment struct {
	ID                  uint              `gorm:"primaryKey;autoIncrement;column:id;index" json:"id"`
	PatientID           uint              `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DentistID           uint              `gorm:"column:dentist_id;not null;index" json:"dentist_id"`
	ClinicID            uint              `gorm:"column:clinic_id;not null" json:"clinic_id"`
	AppointmentDatetime time.Time         `gorm:"column:appointment_datetime;not null;index" json:"appointment_datetime"`
	Status              AppointmentStatus `gorm:"column:status;type:varchar(20);not null" json:"status"`
	Notes               string            `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt           time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ArchivedAt          *time.Time        `gorm:"column:archived_at" json:"archived_at"`
	Patient             Patient           `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
	Dentist             Dentist           `gorm:"foreignKey:DentistID;references:ID" json:"dentist"`
	Clinic              Clinic            `gorm:"foreignKey:ClinicID;references:ID" json:"-"`
}

func (Appointment) TableName() string {
	return "appointment"
}

// AppointmentTreatment is a priced line item binding an appointment to a
// catalog treatment. Unit and total prices are snapshotted when the booking
// is created and never updated, so later catalog price changes do not alter
// historical bookings.
type AppointmentTreatment struct {
	ID            uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AppointmentID uint            `gorm:"column:appointment_id;not null;index" json:"appointment_id"`
	TreatmentID   uint            `gorm:"column:treatment_id;not null;index" json:"treatment_id"`
	Quantity      int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null" json:"unit_price"`
	TotalPrice    decimal.Decimal `gorm:"column:total_price;type:numeric(10,2);not null" json:"total_price"`
	Appointment   Appointment     `gorm:"foreignKey:AppointmentID;references:ID" json:"-"`
	Treatment     Treatment       `gorm:"foreignKey:TreatmentID;references:ID" json:"treatment"`
}

func (AppointmentTreatment) TableName() string {
	return "appointment_treatment"
}
