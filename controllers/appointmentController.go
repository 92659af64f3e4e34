package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ececomak/Dental-Appointment/handlers"
	"github.com/ececomak/Dental-Appointment/middlewares"
	"github.com/ececomak/Dental-Appointment/models"
)

// SetupAppointmentRoutes registers the role-gated appointment and invoice
// routes. Patients book, confirm attendance, cancel their own appointments
// and pay invoices; dentists run the confirm/cancel/complete lifecycle. Both
// roles can view invoices and archive their own terminal appointments.
func SetupAppointmentRoutes(router *gin.Engine, appointmentHandler *handlers.AppointmentHandler, invoiceHandler *handlers.InvoiceHandler, catalogHandler *handlers.CatalogHandler) {
	authenticated := router.Group("").Use(middlewares.TokenAuthMiddleware())
	{
		authenticated.GET("/dentists", catalogHandler.GetAllDentists)
		authenticated.GET("/treatments", catalogHandler.GetActiveTreatments)
	}

	patientGroup := router.Group("/patient").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware(models.RolePatient),
	)
	{
		patientGroup.GET("/appointments", appointmentHandler.ListMine)
		patientGroup.POST("/appointments", appointmentHandler.Book)
		patientGroup.GET("/appointments/slots", appointmentHandler.DaySlots)
		patientGroup.POST("/appointments/:appointment_id/confirm-attendance", appointmentHandler.ConfirmAttendance)
		patientGroup.POST("/appointments/:appointment_id/cancel", appointmentHandler.CancelMine)
		patientGroup.POST("/appointments/:appointment_id/archive", appointmentHandler.Archive)

		patientGroup.GET("/invoices/:invoice_id", invoiceHandler.View)
		patientGroup.POST("/invoices/:invoice_id/pay", invoiceHandler.Pay)
		patientGroup.GET("/invoices/:invoice_id/pay", invoiceHandler.PayRedirect)
	}

	dentistGroup := router.Group("/dentist").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware(models.RoleDentist),
	)
	{
		dentistGroup.GET("/appointments", appointmentHandler.ListSchedule)
		dentistGroup.POST("/appointments/:appointment_id/confirm", appointmentHandler.Confirm)
		dentistGroup.POST("/appointments/:appointment_id/cancel", appointmentHandler.Cancel)
		dentistGroup.POST("/appointments/:appointment_id/complete", appointmentHandler.Complete)
		dentistGroup.POST("/appointments/:appointment_id/archive", appointmentHandler.Archive)

		dentistGroup.GET("/invoices/:invoice_id", invoiceHandler.View)
	}
}
