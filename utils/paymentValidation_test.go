package utils

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/ececomak/Dental-Appointment/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"40.00", "40", false},
		{"40,00", "40", false},
		{" 12,50 ", "12.5", false},
		{"0", "", true},
		{"-5.00", "", true},
		{"", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) = %s, want error", tt.raw, got)
			} else if !errors.Is(err, models.ErrValidation) {
				t.Errorf("ParseAmount(%q) error = %v, want ErrValidation", tt.raw, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) unexpected error: %v", tt.raw, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func validCard() CardDetails {
	return CardDetails{
		Number: "4111 1111 1111 1112",
		Expiry: "12/27",
		CVV:    "123",
		Brand:  "VISA",
	}
}

func TestValidateCard(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CardDetails)
		want   error
	}{
		{"valid card", func(c *CardDetails) {}, nil},
		{"too short", func(c *CardDetails) { c.Number = "4111" }, ErrCardNumber},
		{"too long", func(c *CardDetails) { c.Number = "41111111111111120" }, ErrCardNumber},
		{"letters in number", func(c *CardDetails) { c.Number = "4111abcd11111112" }, ErrCardNumber},
		{"bad expiry month", func(c *CardDetails) { c.Expiry = "13/27" }, ErrCardExpiry},
		{"bad expiry format", func(c *CardDetails) { c.Expiry = "2027-12" }, ErrCardExpiry},
		{"missing expiry", func(c *CardDetails) { c.Expiry = "" }, ErrCardExpiry},
		{"short cvv", func(c *CardDetails) { c.CVV = "12" }, ErrCardCVV},
		{"long cvv", func(c *CardDetails) { c.CVV = "1234" }, ErrCardCVV},
		{"missing brand", func(c *CardDetails) { c.Brand = "  " }, ErrCardBrand},
		{"odd last digit declined", func(c *CardDetails) { c.Number = "4111111111111115" }, ErrCardDeclined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validCard()
			tt.mutate(&card)
			err := ValidateCard(card)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			// Every card rejection is of the validation class.
			if !errors.Is(err, models.ErrValidation) {
				t.Fatalf("card error %v is not a validation error", err)
			}
		})
	}
}

func TestCardErrorReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrCardNumber, "card"},
		{ErrCardExpiry, "exp"},
		{ErrCardCVV, "cvv"},
		{ErrCardBrand, "brand"},
		{ErrCardDeclined, "3ds"},
		{models.ErrValidation, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := CardErrorReason(tt.err); got != tt.want {
			t.Errorf("CardErrorReason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
