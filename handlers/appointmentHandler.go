package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ececomak/Dental-Appointment/services"
)

type AppointmentHandler struct {
	service *services.AppointmentService
	slots   *services.SlotService
}

func NewAppointmentHandler(service *services.AppointmentService, slots *services.SlotService) *AppointmentHandler {
	return &AppointmentHandler{service: service, slots: slots}
}

// bookRequest is the booking form payload.
type bookRequest struct {
	DentistID   uint   `json:"dentist_id"`
	TreatmentID uint   `json:"treatment_id"`
	Datetime    string `json:"appointment_datetime"`
}

func listQuery(c *gin.Context) services.ListQuery {
	q := services.ListQuery{
		HidePast:    c.DefaultQuery("hide_past", "") == "true",
		Status:      c.DefaultQuery("status", ""),
		PatientName: strings.TrimSpace(c.DefaultQuery("patient_name", "")),
	}
	if days, err := strconv.Atoi(c.DefaultQuery("days", "1")); err == nil {
		q.Days = days
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		q.Page = page
	} else {
		q.Page = 1
	}
	if raw := c.DefaultQuery("dentist_id", ""); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			dentistID := uint(id)
			q.DentistID = &dentistID
		}
	}
	return q
}

// ListMine returns the patient's home view: their non-archived appointments,
// newest first, with the expiry sweep applied before the page is built.
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	email, _, ok := principal(c)
	if !ok {
		return
	}

	listing, err := h.service.ListForPatient(c.Request.Context(), email, listQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, listing)
}

// ListSchedule returns the dentist's home view.
func (h *AppointmentHandler) ListSchedule(c *gin.Context) {
	email, _, ok := principal(c)
	if !ok {
		return
	}

	listing, err := h.service.ListForDentist(c.Request.Context(), email, listQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, listing)
}

// Book creates a new SCHEDULED appointment for the authenticated patient.
func (h *AppointmentHandler) Book(c *gin.Context) {
	email, _, ok := principal(c)
	if !ok {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	appointment, err := h.service.Book(c.Request.Context(), email, req.DentistID, req.TreatmentID, req.Datetime)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(201, appointment)
}

// DaySlots returns the bookable start times for a dentist, treatment and day.
func (h *AppointmentHandler) DaySlots(c *gin.Context) {
	dentistID, err := strconv.ParseUint(c.DefaultQuery("dentist_id", ""), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid dentist_id"})
		return
	}
	treatmentID, err := strconv.ParseUint(c.DefaultQuery("treatment_id", ""), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid treatment_id"})
		return
	}
	date := c.DefaultQuery("date", "")

	slots, slotMinutes, err := h.slots.DaySlots(c.Request.Context(), uint(dentistID), uint(treatmentID), date)
	if err != nil {
		writeError(c, err)
		return
	}

	starts := make([]string, 0, len(slots))
	for _, slot := range slots {
		starts = append(starts, slot.Format("15:04"))
	}
	c.JSON(200, gin.H{"date": date, "slot_minutes": slotMinutes, "slots": starts})
}

// ConfirmAttendance is the patient's confirmation inside the 24-hour window.
func (h *AppointmentHandler) ConfirmAttendance(c *gin.Context) {
	email, _, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "appointment_id")
	if !ok {
		return
	}

	if err := h.service.ConfirmAttendance(c.Request.Context(), email, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "attendance confirmed"})
}

// CancelMine cancels the patient's own future appointment.
func (h *AppointmentHandler) CancelMine(c *gin.Context) {
	email, _, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "appointment_id")
	if !ok {
		return
	}

	if err := h.service.CancelAsPatient(c.Request.Context(), email, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "appointment cancelled"})
}

// Confirm moves SCHEDULED to CONFIRMED, dentist-only.
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	email, _, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "appointment_id")
	if !ok {
		return
	}

	if err := h.service.Confirm(c.Request.Context(), email, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "appointment confirmed"})
}

// Cancel cancels any active appointment, dentist-only.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	email, _, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "appointment_id")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), email, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "appointment cancelled"})
}

// Complete marks the appointment done and generates its invoice.
func (h *AppointmentHandler) Complete(c *gin.Context) {
	email, _, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "appointment_id")
	if !ok {
		return
	}

	if err := h.service.Complete(c.Request.Context(), email, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "appointment completed"})
}

// Archive hides a terminal appointment from the caller's listings.
func (h *AppointmentHandler) Archive(c *gin.Context) {
	email, role, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "appointment_id")
	if !ok {
		return
	}

	if err := h.service.Archive(c.Request.Context(), email, role, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "appointment archived"})
}
