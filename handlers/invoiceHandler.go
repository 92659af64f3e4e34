package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/ececomak/Dental-Appointment/services"
	"github.com/ececomak/Dental-Appointment/utils"
)

type InvoiceHandler struct {
	service *services.BillingService
}

func NewInvoiceHandler(service *services.BillingService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// View returns the reconciled invoice: the stored row, the payment ledger,
// paid total, remaining balance and the overdue flag. Viewing also persists
// the freshly derived status when it differs from the stored one.
func (h *InvoiceHandler) View(c *gin.Context) {
	email, role, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "invoice_id")
	if !ok {
		return
	}

	view, err := h.service.View(c.Request.Context(), email, role, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, view)
}

// paymentRequest is the payment form payload.
type paymentRequest struct {
	Amount string            `json:"amount"`
	Method string            `json:"method"`
	Card   utils.CardDetails `json:"card"`
}

// Pay records a payment against the invoice. A settled invoice is a no-op:
// the caller is redirected back to the reconciled view instead of an error.
func (h *InvoiceHandler) Pay(c *gin.Context) {
	email, _, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "invoice_id")
	if !ok {
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	payment, err := h.service.Pay(c.Request.Context(), email, id, services.PaymentRequest{
		Amount: req.Amount,
		Method: req.Method,
		Card:   req.Card,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if payment == nil {
		c.JSON(200, gin.H{"message": "invoice already settled"})
		return
	}
	c.JSON(201, payment)
}

// PayRedirect serves the legacy GET pay link by bouncing to the invoice view.
func (h *InvoiceHandler) PayRedirect(c *gin.Context) {
	c.Redirect(303, fmt.Sprintf("/patient/invoices/%s", c.Param("invoice_id")))
}
