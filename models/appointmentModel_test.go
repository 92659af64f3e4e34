package models

import (
	"errors"
	"testing"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		current AppointmentStatus
		op      TransitionOp
		want    AppointmentStatus
		wantErr bool
	}{
		{"dentist confirms scheduled", StatusScheduled, OpDentistConfirm, StatusConfirmed, false},
		{"dentist confirms confirmed", StatusConfirmed, OpDentistConfirm, "", true},
		{"dentist cancels scheduled", StatusScheduled, OpDentistCancel, StatusCancelled, false},
		{"dentist cancels confirmed", StatusConfirmed, OpDentistCancel, StatusCancelled, false},
		{"dentist cancels patient-confirmed", StatusPatientConfirmed, OpDentistCancel, StatusCancelled, false},
		{"dentist cancels completed", StatusCompleted, OpDentistCancel, "", true},
		{"dentist completes confirmed", StatusConfirmed, OpDentistComplete, StatusCompleted, false},
		{"dentist completes patient-confirmed", StatusPatientConfirmed, OpDentistComplete, StatusCompleted, false},
		{"dentist completes scheduled", StatusScheduled, OpDentistComplete, "", true},
		{"patient confirms scheduled", StatusScheduled, OpPatientConfirm, StatusPatientConfirmed, false},
		{"patient confirms confirmed", StatusConfirmed, OpPatientConfirm, StatusPatientConfirmed, false},
		{"patient confirms twice", StatusPatientConfirmed, OpPatientConfirm, "", true},
		{"patient cancels scheduled", StatusScheduled, OpPatientCancel, StatusCancelled, false},
		{"patient cancels patient-confirmed", StatusPatientConfirmed, OpPatientCancel, StatusCancelled, false},
		{"patient cancels dentist-confirmed", StatusConfirmed, OpPatientCancel, "", true},
		{"patient cancels cancelled", StatusCancelled, OpPatientCancel, "", true},
		{"unknown operation", StatusScheduled, TransitionOp("bogus"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextStatus(tt.current, tt.op)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NextStatus(%s, %s) = %s, want error", tt.current, tt.op, got)
				}
				if !errors.Is(err, ErrInvalidState) {
					t.Fatalf("NextStatus(%s, %s) error = %v, want ErrInvalidState", tt.current, tt.op, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NextStatus(%s, %s) unexpected error: %v", tt.current, tt.op, err)
			}
			if got != tt.want {
				t.Fatalf("NextStatus(%s, %s) = %s, want %s", tt.current, tt.op, got, tt.want)
			}
		})
	}
}

func TestTerminalStatusesRejectEveryOperation(t *testing.T) {
	ops := []TransitionOp{OpDentistConfirm, OpDentistCancel, OpDentistComplete, OpPatientConfirm, OpPatientCancel}
	for _, status := range TerminalStatuses() {
		if !status.IsTerminal() {
			t.Fatalf("%s should be terminal", status)
		}
		for _, op := range ops {
			if _, err := NextStatus(status, op); err == nil {
				t.Errorf("NextStatus(%s, %s) succeeded, terminal statuses must be fixed points", status, op)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusPatientConfirmed} {
		if status.IsTerminal() {
			t.Errorf("%s should not be terminal", status)
		}
	}
}

func TestAllowedFromMatchesTable(t *testing.T) {
	tests := []struct {
		op   TransitionOp
		want []AppointmentStatus
	}{
		{OpDentistConfirm, []AppointmentStatus{StatusScheduled}},
		{OpDentistCancel, []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusPatientConfirmed}},
		{OpDentistComplete, []AppointmentStatus{StatusConfirmed, StatusPatientConfirmed}},
		{OpPatientConfirm, []AppointmentStatus{StatusScheduled, StatusConfirmed}},
		{OpPatientCancel, []AppointmentStatus{StatusScheduled, StatusPatientConfirmed}},
	}

	for _, tt := range tests {
		got := AllowedFrom(tt.op)
		if len(got) != len(tt.want) {
			t.Fatalf("AllowedFrom(%s) = %v, want %v", tt.op, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("AllowedFrom(%s) = %v, want %v", tt.op, got, tt.want)
			}
		}
	}

	if AllowedFrom(TransitionOp("bogus")) != nil {
		t.Error("AllowedFrom of an unknown operation should be nil")
	}
}
