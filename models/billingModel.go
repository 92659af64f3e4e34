package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus enumerates the billing states of an invoice.
type InvoiceStatus string

const (
	InvoiceUnpaid        InvoiceStatus = "UNPAID"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoicePaid          InvoiceStatus = "PAID"
	InvoiceCancelled     InvoiceStatus = "CANCELLED"
)

// PaymentMethod enumerates accepted payment methods.
type PaymentMethod string

const (
	MethodCash PaymentMethod = "CASH"
	MethodCard PaymentMethod = "CARD"
)

// PaymentStatusSuccess is the only persisted payment status: failed attempts
// are rejected before a row is written, so the ledger is append-only and
// success-only.
const PaymentStatusSuccess = "SUCCESS"

// Invoice model, one per completed appointment. All amounts use fixed-point
// decimals end to end so the paid/remaining comparisons are exact.
type Invoice struct {
	ID             uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AppointmentID  uint            `gorm:"column:appointment_id;not null;uniqueIndex" json:"appointment_id"`
	TotalAmount    decimal.Decimal `gorm:"column:total_amount;type:numeric(10,2);not null" json:"total_amount"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:numeric(10,2);not null" json:"discount_amount"`
	FinalAmount    decimal.Decimal `gorm:"column:final_amount;type:numeric(10,2);not null" json:"final_amount"`
	Status         InvoiceStatus   `gorm:"column:status;type:varchar(20);not null" json:"status"`
	DueDate        *time.Time      `gorm:"column:due_date;type:date" json:"due_date"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Appointment    Appointment     `gorm:"foreignKey:AppointmentID;references:ID" json:"-"`
	Payments       []Payment       `gorm:"foreignKey:InvoiceID;references:ID" json:"-"`
}

func (Invoice) TableName() string {
	return "invoice"
}

// Payment model. Rows are append-only; no payment is ever mutated or deleted.
type Payment struct {
	ID              uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	InvoiceID       uint            `gorm:"column:invoice_id;not null;index" json:"invoice_id"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null" json:"amount"`
	PaymentDatetime time.Time       `gorm:"column:payment_datetime;not null" json:"payment_datetime"`
	Method          PaymentMethod   `gorm:"column:payment_method;type:varchar(30);not null" json:"payment_method"`
	Status          string          `gorm:"column:payment_status;type:varchar(20);not null" json:"payment_status"`
	TransactionNo   string          `gorm:"column:transaction_no;size:100;unique" json:"transaction_no"`
	Invoice         Invoice         `gorm:"foreignKey:InvoiceID;references:ID" json:"-"`
}

func (Payment) TableName() string {
	return "payment"
}

// ComputeInvoiceStatus derives the invoice status from the payment ledger.
// CANCELLED is authoritative and never overridden by payments. The function
// is pure and idempotent; callers persist the result whenever it differs from
// the stored status (lazy recomputation on read and after every payment).
func ComputeInvoiceStatus(current InvoiceStatus, paid, total decimal.Decimal) InvoiceStatus {
	if current == InvoiceCancelled {
		return InvoiceCancelled
	}
	if total.Sign() <= 0 || paid.Sign() <= 0 {
		return InvoiceUnpaid
	}
	if paid.GreaterThanOrEqual(total) {
		return InvoicePaid
	}
	return InvoicePartiallyPaid
}

// RemainingBalance is the outstanding amount, floored at zero.
func RemainingBalance(total, paid decimal.Decimal) decimal.Decimal {
	remaining := total.Sub(paid)
	if remaining.Sign() < 0 {
		return decimal.Zero
	}
	return remaining
}

// BlocksArchival reports whether the invoice status forbids archiving the
// appointment it belongs to.
func (s InvoiceStatus) BlocksArchival() bool {
	return s == InvoiceUnpaid || s == InvoicePartiallyPaid
}

// IsOverdue is a derived view fact, never persisted: due date strictly before
// today, positive remaining balance, and not cancelled.
func (i *Invoice) IsOverdue(remaining decimal.Decimal, today time.Time) bool {
	if i.DueDate == nil || i.Status == InvoiceCancelled {
		return false
	}
	y, m, d := today.Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return remaining.Sign() > 0 && i.DueDate.Before(startOfToday)
}
