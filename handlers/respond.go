package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/ececomak/Dental-Appointment/middlewares"
	"github.com/ececomak/Dental-Appointment/models"
	"github.com/ececomak/Dental-Appointment/utils"
)

// writeError translates a domain error into its HTTP response. The soft
// outcomes (blocked archival, overpayment, card rejections) carry a short
// reason code the client uses to highlight the offending field or show a
// recoverable message instead of an error page.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(404, gin.H{"error": "record not found"})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(403, gin.H{"error": "you do not own this record"})
	case errors.Is(err, models.ErrUnpaidInvoice):
		c.JSON(409, gin.H{"error": err.Error(), "reason": "unpaid"})
	case errors.Is(err, models.ErrOverpayment):
		c.JSON(409, gin.H{"error": err.Error(), "reason": "amount"})
	case errors.Is(err, models.ErrInvalidState), errors.Is(err, models.ErrScheduleConflict):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrOutOfWindow), errors.Is(err, models.ErrMisalignedSlot):
		c.JSON(422, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrValidation):
		if reason := utils.CardErrorReason(err); reason != "" {
			c.JSON(400, gin.H{"error": err.Error(), "reason": reason})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
	default:
		middlewares.HttpError(c, "internal server error", 500, err)
	}
}

// pathID parses the named uint path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// principal pulls the authenticated email and role out of the request context.
func principal(c *gin.Context) (string, string, bool) {
	email, err := middlewares.ExtractPrincipalEmail(c.Request.Context())
	if err != nil {
		c.JSON(401, gin.H{"error": "unauthenticated"})
		return "", "", false
	}
	role, err := middlewares.ExtractPrincipalRole(c.Request.Context())
	if err != nil {
		c.JSON(401, gin.H{"error": "unauthenticated"})
		return "", "", false
	}
	return email, role, true
}
