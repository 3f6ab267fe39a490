package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Supported payment method identifiers for server-side verification.
const (
	PaymentMethodCard    = "card"
	PaymentMethodPayPal  = "paypal"
	PaymentMethodBanking = "banking"
)

// PaymentDetails carries method-specific payment fields. Only the fields
// relevant to the chosen method are read.
type PaymentDetails struct {
	CardNumber     string `json:"card_number"`
	CVV            string `json:"cvv"`
	Expiry         string `json:"expiry"`
	CardholderName string `json:"cardholder_name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
}

// ValidationError reports why payment details were rejected.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

var (
	expiryPattern      = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	paypalEmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)
	digitsOnly         = regexp.MustCompile(`^\d+$`)
)

// methodLabels maps verification method ids to the display label written
// into payment_method.
var methodLabels = map[string]string{
	PaymentMethodCard:    "Credit / Debit Card",
	PaymentMethodPayPal:  "PayPal",
	PaymentMethodBanking: "Online Banking",
}

// validatePaymentDetails checks the details for the given method and returns
// the normalized display label. There is no external gateway call: the
// checks stand in for one.
func validatePaymentDetails(method string, details PaymentDetails, now time.Time) (string, error) {
	label, ok := methodLabels[method]
	if !ok {
		return "", &ValidationError{Reason: "unsupported payment method"}
	}

	switch method {
	case PaymentMethodCard:
		if err := validateCard(details, now); err != nil {
			return label, err
		}
	case PaymentMethodPayPal:
		if err := validatePayPal(details); err != nil {
			return label, err
		}
	case PaymentMethodBanking:
		// Placeholder trust: always accepted.
	}

	return label, nil
}

func validateCard(details PaymentDetails, now time.Time) error {
	number := strings.ReplaceAll(strings.ReplaceAll(details.CardNumber, " ", ""), "-", "")
	if number == "" || details.CVV == "" || details.Expiry == "" || strings.TrimSpace(details.CardholderName) == "" {
		return &ValidationError{Reason: "card number, CVV, expiry and cardholder name are required"}
	}

	if !digitsOnly.MatchString(number) || len(number) < 13 {
		return &ValidationError{Reason: "invalid card number"}
	}

	if !digitsOnly.MatchString(details.CVV) || len(details.CVV) != 3 {
		return &ValidationError{Reason: "CVV must be exactly 3 digits"}
	}

	if !expiryPattern.MatchString(details.Expiry) {
		return &ValidationError{Reason: "expiry must be in MM/YY format"}
	}

	parts := strings.SplitN(details.Expiry, "/", 2)
	month, _ := strconv.Atoi(parts[0])
	year, _ := strconv.Atoi(parts[1])
	year += 2000

	// Same month is not expired; only a strictly earlier month/year is.
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return &ValidationError{Reason: "card is expired"}
	}

	return nil
}

func validatePayPal(details PaymentDetails) error {
	if details.Email == "" || details.Password == "" {
		return &ValidationError{Reason: "PayPal email and password are required"}
	}

	if !paypalEmailPattern.MatchString(details.Email) {
		return &ValidationError{Reason: "invalid PayPal email"}
	}

	if len(details.Password) < 6 {
		return &ValidationError{Reason: "PayPal password must be at least 6 characters"}
	}

	return nil
}
