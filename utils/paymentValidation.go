package utils

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ececomak/Dental-Appointment/models"
)

// Card rejection reasons, all of the ValidationError class. Handlers map each
// to its reason code (err=card, err=exp, ...) so the client can highlight the
// offending field.
var (
	ErrCardNumber   = errors.Wrap(models.ErrValidation, "card number must contain exactly 16 digits")
	ErrCardExpiry   = errors.Wrap(models.ErrValidation, "expiry must be in MM/YY format")
	ErrCardCVV      = errors.Wrap(models.ErrValidation, "cvv must be exactly 3 digits")
	ErrCardBrand    = errors.Wrap(models.ErrValidation, "card brand is required")
	ErrCardDeclined = errors.Wrap(models.ErrValidation, "card declined by the 3-D Secure check")
)

var (
	nonDigitRegex = regexp.MustCompile(`\D`)
	expiryRegex   = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRegex      = regexp.MustCompile(`^\d{3}$`)
)

// CardDetails holds raw card fields as submitted by the client.
type CardDetails struct {
	Number string `json:"cardNumber"`
	Expiry string `json:"exp"`
	CVV    string `json:"cvv"`
	Brand  string `json:"brand"`
}

// ParseAmount parses a decimal amount string, accepting either ',' or '.' as
// the decimal separator. The comma form is a documented quirk kept for
// clients that submit locale-formatted numbers. The amount must be strictly
// positive.
func ParseAmount(raw string) (decimal.Decimal, error) {
	normalized := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if normalized == "" {
		return decimal.Zero, errors.Wrap(models.ErrValidation, "amount is required")
	}
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, errors.Wrapf(models.ErrValidation, "malformed amount %q", raw)
	}
	if amount.Sign() <= 0 {
		return decimal.Zero, errors.Wrap(models.ErrValidation, "amount must be positive")
	}
	return amount, nil
}

// ValidateCard checks the card fields deterministically. The final check is a
// pseudo 3-D Secure step that declines card numbers ending in an odd digit; a
// deliberately simple stand-in for real authorization, not a security
// control.
func ValidateCard(card CardDetails) error {
	digits := nonDigitRegex.ReplaceAllString(card.Number, "")
	if len(digits) != 16 {
		return ErrCardNumber
	}

	err := validation.Errors{
		"exp":   validation.Validate(card.Expiry, validation.Required, validation.Match(expiryRegex)),
		"cvv":   validation.Validate(card.CVV, validation.Required, validation.Match(cvvRegex)),
		"brand": validation.Validate(strings.TrimSpace(card.Brand), validation.Required),
	}.Filter()
	if err != nil {
		verrs, ok := err.(validation.Errors)
		if ok {
			if verrs["exp"] != nil {
				return ErrCardExpiry
			}
			if verrs["cvv"] != nil {
				return ErrCardCVV
			}
			if verrs["brand"] != nil {
				return ErrCardBrand
			}
		}
		return errors.Wrap(models.ErrValidation, err.Error())
	}

	lastDigit := int(digits[len(digits)-1] - '0')
	if lastDigit%2 != 0 {
		return ErrCardDeclined
	}
	return nil
}

// CardErrorReason maps a card rejection to its short reason code, or "" when
// the error is not a card error.
func CardErrorReason(err error) string {
	switch {
	case errors.Is(err, ErrCardNumber):
		return "card"
	case errors.Is(err, ErrCardExpiry):
		return "exp"
	case errors.Is(err, ErrCardCVV):
		return "cvv"
	case errors.Is(err, ErrCardBrand):
		return "brand"
	case errors.Is(err, ErrCardDeclined):
		return "3ds"
	}
	return ""
}
