package services

import (
	"testing"
	"time"

	"github.com/ececomak/Dental-Appointment/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func at(base time.Time, hour, minute int) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
}

func TestAvailableSlotsFullDay(t *testing.T) {
	d := day(2025, 6, 2)
	earlier := day(2025, 6, 1)

	slots := AvailableSlots(d, 30, nil, earlier)
	if len(slots) != 16 {
		t.Fatalf("30-minute day has %d slots, want 16", len(slots))
	}
	if !slots[0].Equal(at(d, 9, 0)) {
		t.Errorf("first slot = %v, want 09:00", slots[0])
	}
	if !slots[len(slots)-1].Equal(at(d, 16, 30)) {
		t.Errorf("last slot = %v, want 16:30", slots[len(slots)-1])
	}
}

func TestAvailableSlotsDurations(t *testing.T) {
	d := day(2025, 6, 2)
	earlier := day(2025, 6, 1)

	tests := []struct {
		slotMinutes int
		count       int
		lastHour    int
		lastMinute  int
	}{
		{60, 8, 16, 0},
		{45, 10, 15, 45},
		{15, 32, 16, 45},
	}

	for _, tt := range tests {
		slots := AvailableSlots(d, tt.slotMinutes, nil, earlier)
		if len(slots) != tt.count {
			t.Errorf("%d-minute day has %d slots, want %d", tt.slotMinutes, len(slots), tt.count)
			continue
		}
		last := slots[len(slots)-1]
		if last.Hour() != tt.lastHour || last.Minute() != tt.lastMinute {
			t.Errorf("%d-minute last slot = %02d:%02d, want %02d:%02d",
				tt.slotMinutes, last.Hour(), last.Minute(), tt.lastHour, tt.lastMinute)
		}
	}
}

func TestAvailableSlotsExcludesBusy(t *testing.T) {
	d := day(2025, 6, 2)
	earlier := day(2025, 6, 1)
	busy := []time.Time{at(d, 9, 0), at(d, 14, 30)}

	slots := AvailableSlots(d, 30, busy, earlier)
	if len(slots) != 14 {
		t.Fatalf("got %d slots, want 14", len(slots))
	}
	for _, slot := range slots {
		for _, b := range busy {
			if slot.Equal(b) {
				t.Errorf("busy slot %v still offered", slot)
			}
		}
	}
}

func TestAvailableSlotsCutsOffPast(t *testing.T) {
	d := day(2025, 6, 2)

	// Mid-day: everything at or before now is gone.
	now := at(d, 12, 0)
	slots := AvailableSlots(d, 30, nil, now)
	if len(slots) != 9 {
		t.Fatalf("got %d slots after 12:00, want 9", len(slots))
	}
	if !slots[0].Equal(at(d, 12, 30)) {
		t.Errorf("first slot = %v, want 12:30 (12:00 itself is not bookable)", slots[0])
	}

	// After closing: nothing left.
	if slots := AvailableSlots(d, 30, nil, at(d, 17, 0)); len(slots) != 0 {
		t.Errorf("got %d slots after closing, want 0", len(slots))
	}
}

func TestAvailableSlotsDegenerateDurations(t *testing.T) {
	d := day(2025, 6, 2)
	earlier := day(2025, 6, 1)

	if slots := AvailableSlots(d, 0, nil, earlier); slots != nil {
		t.Errorf("zero duration should yield no slots, got %v", slots)
	}
	// Longer than the whole window.
	if slots := AvailableSlots(d, 9*60, nil, earlier); slots != nil {
		t.Errorf("oversized duration should yield no slots, got %v", slots)
	}
}

func TestResolveSlotMinutes(t *testing.T) {
	sixty := 60
	zero := 0

	tests := []struct {
		name      string
		treatment *models.Treatment
		want      int
	}{
		{"explicit duration", &models.Treatment{DefaultDurationMinutes: &sixty}, 60},
		{"nil duration falls back", &models.Treatment{}, DefaultSlotMinutes},
		{"zero duration falls back", &models.Treatment{DefaultDurationMinutes: &zero}, DefaultSlotMinutes},
		{"nil treatment falls back", nil, DefaultSlotMinutes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveSlotMinutes(tt.treatment); got != tt.want {
				t.Fatalf("ResolveSlotMinutes = %d, want %d", got, tt.want)
			}
		})
	}
}
