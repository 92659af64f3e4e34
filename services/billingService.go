package services

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ececomak/Dental-Appointment/models"
	"github.com/ececomak/Dental-Appointment/repositories"
	"github.com/ececomak/Dental-Appointment/utils"
)

// BillingService owns invoice/payment reconciliation: payment acceptance,
// remaining-balance math and the lazy status recomputation that keeps the
// persisted status aligned with the ledger on every view and after every
// accepted payment.
type BillingService struct {
	invoices *repositories.InvoiceRepository
	now      func() time.Time
}

func NewBillingService(invoices *repositories.InvoiceRepository) *BillingService {
	return &BillingService{invoices: invoices, now: time.Now}
}

// InvoiceView is the reconciled read model of an invoice.
type InvoiceView struct {
	Invoice   *models.Invoice  `json:"invoice"`
	Payments  []models.Payment `json:"payments"`
	PaidTotal decimal.Decimal  `json:"paid_total"`
	Remaining decimal.Decimal  `json:"remaining"`
	Overdue   bool             `json:"overdue"`
}

// PaymentRequest carries the raw payment form fields.
type PaymentRequest struct {
	Amount string            `json:"amount"`
	Method string            `json:"method"`
	Card   utils.CardDetails `json:"card"`
}

// View loads the invoice for its owner (the appointment's patient or
// dentist, depending on role), reconciles the ledger and persists the derived
// status when it differs from the stored one.
func (s *BillingService) View(ctx context.Context, principalEmail, role string, invoiceID uint) (*InvoiceView, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	owner := invoice.Appointment.Patient.UserAccount.Email
	if role == models.RoleDentist {
		owner = invoice.Appointment.Dentist.UserAccount.Email
	}
	if err := requireOwner(principalEmail, owner); err != nil {
		return nil, err
	}

	payments, err := s.invoices.ListPayments(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	remaining := models.RemainingBalance(invoice.FinalAmount, paid)

	if computed := models.ComputeInvoiceStatus(invoice.Status, paid, invoice.FinalAmount); computed != invoice.Status {
		if err := s.invoices.UpdateStatus(ctx, invoiceID, computed); err != nil {
			return nil, err
		}
		invoice.Status = computed
	}

	return &InvoiceView{
		Invoice:   invoice,
		Payments:  payments,
		PaidTotal: paid,
		Remaining: remaining,
		Overdue:   invoice.IsOverdue(remaining, s.now()),
	}, nil
}

// Pay accepts a payment against the invoice. Only the appointment's patient
// may pay. A settled invoice yields (nil, nil): the status is re-derived and
// the caller is sent back to the current view, a no-op rather than an error.
// Overpayment is rejected outright; there is no partial acceptance of the
// excess.
func (s *BillingService) Pay(ctx context.Context, patientEmail string, invoiceID uint, req PaymentRequest) (*models.Payment, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(patientEmail, invoice.Appointment.Patient.UserAccount.Email); err != nil {
		return nil, err
	}

	if invoice.Status == models.InvoiceCancelled {
		return nil, errors.Wrap(models.ErrInvalidState, "cancelled invoices do not accept payments")
	}

	amount, err := utils.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	paid, err := s.invoices.SumPayments(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	remaining := models.RemainingBalance(invoice.FinalAmount, paid)

	if remaining.Sign() <= 0 {
		// Nothing left to pay: re-derive the status and report the current
		// state instead of failing.
		if computed := models.ComputeInvoiceStatus(invoice.Status, paid, invoice.FinalAmount); computed != invoice.Status {
			if err := s.invoices.UpdateStatus(ctx, invoiceID, computed); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	if amount.GreaterThan(remaining) {
		return nil, models.ErrOverpayment
	}

	method := models.MethodCash
	if raw := strings.TrimSpace(req.Method); raw != "" {
		switch models.PaymentMethod(strings.ToUpper(raw)) {
		case models.MethodCash:
			method = models.MethodCash
		case models.MethodCard:
			method = models.MethodCard
		default:
			return nil, errors.Wrapf(models.ErrValidation, "unknown payment method %q", raw)
		}
	}

	if method == models.MethodCard {
		if err := utils.ValidateCard(req.Card); err != nil {
			return nil, err
		}
	}

	return s.invoices.AppendPayment(ctx, invoice, amount, method, s.now())
}
