package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeInvoiceStatus(t *testing.T) {
	tests := []struct {
		name    string
		current InvoiceStatus
		paid    string
		total   string
		want    InvoiceStatus
	}{
		{"no payments", InvoiceUnpaid, "0", "100.00", InvoiceUnpaid},
		{"partial payment", InvoiceUnpaid, "60.00", "100.00", InvoicePartiallyPaid},
		{"exact settlement", InvoicePartiallyPaid, "100.00", "100.00", InvoicePaid},
		{"paid beyond total", InvoicePartiallyPaid, "120.00", "100.00", InvoicePaid},
		{"zero total", InvoiceUnpaid, "50.00", "0", InvoiceUnpaid},
		{"cancelled ignores payments", InvoiceCancelled, "100.00", "100.00", InvoiceCancelled},
		{"cancelled with no payments", InvoiceCancelled, "0", "100.00", InvoiceCancelled},
		{"cent-level partial", InvoiceUnpaid, "99.99", "100.00", InvoicePartiallyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeInvoiceStatus(tt.current, dec(tt.paid), dec(tt.total))
			if got != tt.want {
				t.Fatalf("ComputeInvoiceStatus(%s, %s, %s) = %s, want %s", tt.current, tt.paid, tt.total, got, tt.want)
			}
			// Recomputing from the derived status must not change it.
			if again := ComputeInvoiceStatus(got, dec(tt.paid), dec(tt.total)); again != got {
				t.Fatalf("recompute flipped %s to %s", got, again)
			}
		})
	}
}

func TestComputeInvoiceStatusPaymentSequence(t *testing.T) {
	total := dec("100.00")
	paid := decimal.Zero
	status := InvoiceUnpaid

	paid = paid.Add(dec("60.00"))
	if status = ComputeInvoiceStatus(status, paid, total); status != InvoicePartiallyPaid {
		t.Fatalf("after 60 of 100: %s, want PARTIALLY_PAID", status)
	}
	if remaining := RemainingBalance(total, paid); !remaining.Equal(dec("40.00")) {
		t.Fatalf("remaining after 60 = %s, want 40.00", remaining)
	}

	paid = paid.Add(dec("40.00"))
	if status = ComputeInvoiceStatus(status, paid, total); status != InvoicePaid {
		t.Fatalf("after 100 of 100: %s, want PAID", status)
	}
	if remaining := RemainingBalance(total, paid); remaining.Sign() != 0 {
		t.Fatalf("remaining after settlement = %s, want 0", remaining)
	}
}

func TestRemainingBalanceFloorsAtZero(t *testing.T) {
	if got := RemainingBalance(dec("100.00"), dec("120.00")); got.Sign() != 0 {
		t.Fatalf("RemainingBalance(100, 120) = %s, want 0", got)
	}
}

func TestBlocksArchival(t *testing.T) {
	tests := []struct {
		status InvoiceStatus
		want   bool
	}{
		{InvoiceUnpaid, true},
		{InvoicePartiallyPaid, true},
		{InvoicePaid, false},
		{InvoiceCancelled, false},
	}
	for _, tt := range tests {
		if got := tt.status.BlocksArchival(); got != tt.want {
			t.Errorf("%s.BlocksArchival() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestIsOverdue(t *testing.T) {
	today := time.Date(2025, 3, 15, 14, 30, 0, 0, time.Local)
	yesterday := time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)
	tomorrow := time.Date(2025, 3, 16, 0, 0, 0, 0, time.Local)
	startOfToday := time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		due       *time.Time
		status    InvoiceStatus
		remaining string
		want      bool
	}{
		{"past due with balance", &yesterday, InvoiceUnpaid, "40.00", true},
		{"past due but settled", &yesterday, InvoicePaid, "0", false},
		{"due today is not overdue", &startOfToday, InvoiceUnpaid, "40.00", false},
		{"due tomorrow", &tomorrow, InvoiceUnpaid, "40.00", false},
		{"no due date", nil, InvoiceUnpaid, "40.00", false},
		{"cancelled never overdue", &yesterday, InvoiceCancelled, "40.00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoice := &Invoice{DueDate: tt.due, Status: tt.status}
			if got := invoice.IsOverdue(dec(tt.remaining), today); got != tt.want {
				t.Fatalf("IsOverdue = %v, want %v", got, tt.want)
			}
		})
	}
}
