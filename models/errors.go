package models

import "errors"

// Domain errors. Every rule violation maps to exactly one of these sentinels
// so callers can branch with errors.Is; handlers translate them to HTTP
// responses. ErrUnpaidInvoice and ErrOverpayment are soft, user-recoverable
// outcomes rather than structural failures, and are surfaced with a reason
// code instead of a hard error page.
var (
	ErrNotFound         = errors.New("record not found")
	ErrForbidden        = errors.New("principal does not own this record")
	ErrInvalidState     = errors.New("operation not permitted in current status")
	ErrScheduleConflict = errors.New("dentist already has an appointment at this time")
	ErrOutOfWindow      = errors.New("requested time is outside clinic working hours")
	ErrMisalignedSlot   = errors.New("requested time is not aligned to the slot grid")
	ErrValidation       = errors.New("invalid input")
	ErrUnpaidInvoice    = errors.New("outstanding invoice blocks archival")
	ErrOverpayment      = errors.New("payment exceeds the remaining balance")
)
