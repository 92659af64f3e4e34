package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ececomak/Dental-Appointment/cache"
	"github.com/ececomak/Dental-Appointment/database"
	"github.com/ececomak/Dental-Appointment/models"
)

// Invoices are due 30 days after the completion that generated them.
const InvoiceDueDays = 30

type InvoiceRepository struct {
	cache *cache.Cache
}

func NewInvoiceRepository(cache *cache.Cache) *InvoiceRepository {
	return &InvoiceRepository{cache: cache}
}

// GetByID loads an invoice with the appointment parties needed for ownership
// checks.
func (r *InvoiceRepository) GetByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := database.DB.
		Preload("Appointment.Patient.UserAccount").
		Preload("Appointment.Dentist.UserAccount").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get invoice")
	}
	return &invoice, nil
}

// FindByAppointment returns the appointment's invoice, or nil when none has
// been generated yet.
func (r *InvoiceRepository) FindByAppointment(ctx context.Context, appointmentID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := database.DB.First(&invoice, "appointment_id = ?", appointmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find invoice by appointment")
	}
	return &invoice, nil
}

// GenerateForAppointment creates the invoice for a completed appointment:
// total = sum of the line-item totals, no discount, due 30 days out, UNPAID.
// Idempotent: if an invoice already exists it is returned untouched, and the
// unique index on appointment_id backstops a concurrent duplicate.
func (r *InvoiceRepository) GenerateForAppointment(ctx context.Context, appointmentID uint, now time.Time) (*models.Invoice, error) {
	lockKey := fmt.Sprintf("invoice_gen_lock:%d", appointmentID)
	release, err := acquireLock(ctx, lockKey)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := r.FindByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	var total decimal.Decimal
	err = database.DB.Model(&models.AppointmentTreatment{}).
		Where("appointment_id = ?", appointmentID).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum treatment totals")
	}

	due := now.AddDate(0, 0, InvoiceDueDays)
	invoice := &models.Invoice{
		AppointmentID:  appointmentID,
		TotalAmount:    total,
		DiscountAmount: decimal.Zero,
		FinalAmount:    total.Sub(decimal.Zero),
		Status:         models.InvoiceUnpaid,
		DueDate:        &due,
	}
	if err := database.DB.Create(invoice).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create invoice")
	}
	return invoice, nil
}

// SumPayments aggregates the successful payments recorded for an invoice.
func (r *InvoiceRepository) SumPayments(ctx context.Context, invoiceID uint) (decimal.Decimal, error) {
	var paid decimal.Decimal
	err := database.DB.Model(&models.Payment{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paid).Error
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to sum payments")
	}
	return paid, nil
}

// ListPayments returns the invoice's payments, newest first.
func (r *InvoiceRepository) ListPayments(ctx context.Context, invoiceID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := database.DB.
		Where("invoice_id = ?", invoiceID).
		Order("payment_datetime DESC").
		Find(&payments).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list payments")
	}
	return payments, nil
}

// UpdateStatus persists a lazily recomputed invoice status.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, invoiceID uint, status models.InvoiceStatus) error {
	err := database.DB.Model(&models.Invoice{}).
		Where("id = ?", invoiceID).
		Update("status", status).Error
	if err != nil {
		return errors.Wrap(err, "failed to update invoice status")
	}
	return nil
}

// AppendPayment appends an immutable payment row and persists the re-derived
// invoice status in the same transaction. The remaining balance is
// re-evaluated inside the lock so that a payment racing this one cannot push
// the ledger past the final amount; a loss here surfaces as ErrOverpayment.
func (r *InvoiceRepository) AppendPayment(ctx context.Context, invoice *models.Invoice, amount decimal.Decimal, method models.PaymentMethod, now time.Time) (*models.Payment, error) {
	lockKey := fmt.Sprintf("invoice_lock:%d", invoice.ID)
	release, err := acquireLock(ctx, lockKey)
	if err != nil {
		return nil, err
	}
	defer release()

	var payment *models.Payment
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var paid decimal.Decimal
		err := tx.Model(&models.Payment{}).
			Where("invoice_id = ?", invoice.ID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&paid).Error
		if err != nil {
			return errors.Wrap(err, "failed to sum payments")
		}

		remaining := models.RemainingBalance(invoice.FinalAmount, paid)
		if amount.GreaterThan(remaining) {
			return models.ErrOverpayment
		}

		payment = &models.Payment{
			InvoiceID:       invoice.ID,
			Amount:          amount,
			PaymentDatetime: now,
			Method:          method,
			Status:          models.PaymentStatusSuccess,
			TransactionNo:   "TX-" + uuid.New().String(),
		}
		if err := tx.Create(payment).Error; err != nil {
			return errors.Wrap(err, "failed to create payment")
		}

		newStatus := models.ComputeInvoiceStatus(invoice.Status, paid.Add(amount), invoice.FinalAmount)
		if newStatus != invoice.Status {
			invoice.Status = newStatus
			if err := tx.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
				Update("status", newStatus).Error; err != nil {
				return errors.Wrap(err, "failed to persist invoice status")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
