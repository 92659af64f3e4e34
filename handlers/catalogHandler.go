package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ececomak/Dental-Appointment/services"
)

type CatalogHandler struct {
	dentists   *services.DentistService
	treatments *services.TreatmentService
}

func NewCatalogHandler(dentists *services.DentistService, treatments *services.TreatmentService) *CatalogHandler {
	return &CatalogHandler{dentists: dentists, treatments: treatments}
}

// GetAllDentists lists every dentist for the booking form.
func (h *CatalogHandler) GetAllDentists(c *gin.Context) {
	dentists, err := h.dentists.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, dentists)
}

// GetActiveTreatments lists the treatments currently offered.
func (h *CatalogHandler) GetActiveTreatments(c *gin.Context) {
	treatments, err := h.treatments.GetAllActive(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, treatments)
}
