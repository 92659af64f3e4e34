package services

import (
	"errors"
	"testing"
	"time"

	"github.com/ececomak/Dental-Appointment/models"
)

func TestParseAppointmentDatetime(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"2025-06-02T10:30:00", false},
		{"2025-06-02T10:30", false},
		{"2025-06-02 10:30", true},
		{"02/06/2025 10:30", true},
		{"", true},
	}

	for _, tt := range tests {
		_, err := ParseAppointmentDatetime(tt.raw)
		if tt.wantErr && err == nil {
			t.Errorf("ParseAppointmentDatetime(%q) succeeded, want error", tt.raw)
		}
		if tt.wantErr && err != nil && !errors.Is(err, models.ErrValidation) {
			t.Errorf("ParseAppointmentDatetime(%q) error = %v, want ErrValidation", tt.raw, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("ParseAppointmentDatetime(%q) unexpected error: %v", tt.raw, err)
		}
	}
}

func TestValidateBookingTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	next := func(hour, minute int) time.Time {
		return time.Date(2025, 6, 2, hour, minute, 0, 0, time.Local)
	}

	tests := []struct {
		name        string
		dt          time.Time
		slotMinutes int
		wantErr     error
	}{
		{"valid opening slot", next(9, 0), 30, nil},
		{"valid last 30-minute slot", next(16, 30), 30, nil},
		{"valid last 60-minute slot", next(16, 0), 60, nil},
		{"in the past", time.Date(2025, 5, 30, 10, 0, 0, 0, time.Local), 30, models.ErrValidation},
		{"exactly now", now, 30, models.ErrValidation},
		{"before opening", next(8, 30), 30, models.ErrOutOfWindow},
		{"16:45 leaves no room for 30 minutes", next(16, 45), 30, models.ErrOutOfWindow},
		{"16:30 leaves no room for 60 minutes", next(16, 30), 60, models.ErrOutOfWindow},
		{"at closing", next(17, 0), 30, models.ErrOutOfWindow},
		{"off the 30-minute grid", next(16, 31), 30, models.ErrMisalignedSlot},
		{"off the 60-minute grid", next(10, 30), 60, models.ErrMisalignedSlot},
		{"nonzero seconds", next(10, 0).Add(5 * time.Second), 30, models.ErrMisalignedSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBookingTime(tt.dt, tt.slotMinutes, now)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckAttendanceWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		dt      time.Time
		wantErr error
	}{
		{"inside the window", now.Add(10 * time.Hour), nil},
		{"exactly 24 hours out", now.Add(24 * time.Hour), nil},
		{"one minute past the boundary", now.Add(24*time.Hour + time.Minute), models.ErrOutOfWindow},
		{"thirty hours out", now.Add(30 * time.Hour), models.ErrOutOfWindow},
		{"already passed", now.Add(-time.Hour), models.ErrInvalidState},
		{"exactly now", now, models.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAttendanceWindow(tt.dt, now)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequireOwner(t *testing.T) {
	if err := requireOwner("sam@clinic.com", "sam@clinic.com"); err != nil {
		t.Fatalf("owner denied: %v", err)
	}
	if err := requireOwner("sam@clinic.com", "test@clinic.com"); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("foreign principal error = %v, want ErrForbidden", err)
	}
	// Missing owner email must deny, never match an empty principal.
	if err := requireOwner("", ""); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("empty owner error = %v, want ErrForbidden", err)
	}
}
