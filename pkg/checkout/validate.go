package checkout

import (
	"regexp"
	"strings"
)

// PaymentMethod labels how the customer intends to pay. It is recorded on
// the order as-is; no gateway is involved.
type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentUPI    PaymentMethod = "UPI"
	PaymentOnline PaymentMethod = "Online"
)

// Valid reports whether the method is one of the known labels.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentUPI, PaymentOnline:
		return true
	}
	return false
}

// CustomerDetails is the delivery form. Instructions are optional; the
// rest is required.
type CustomerDetails struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	Instructions string `json:"instructions"`
}

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

// Error joins the messages so FieldErrors satisfies error.
func (e FieldErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, m := range e {
		msgs = append(msgs, m)
	}
	return strings.Join(msgs, "; ")
}

var (
	nonDigits = regexp.MustCompile(`\D`)
	emailRe   = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	upiRe     = regexp.MustCompile(`^[\w.-]+@[\w.-]+$`)
)

// Validate checks the delivery form against every rule; it never stops at
// the first failure, so the caller gets the complete error set. A nil map
// means the form passed.
func Validate(d CustomerDetails, method PaymentMethod, upiID string) FieldErrors {
	errs := FieldErrors{}
	if !method.Valid() {
		errs["paymentMethod"] = "Please select a valid payment method"
	}
	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(d.Phone) == "" {
		errs["phone"] = "Phone number is required"
	} else if len(nonDigits.ReplaceAllString(d.Phone, "")) != 10 {
		errs["phone"] = "Please enter a valid 10-digit phone number"
	}
	if strings.TrimSpace(d.Email) == "" {
		errs["email"] = "Email is required"
	} else if !emailRe.MatchString(d.Email) {
		errs["email"] = "Please enter a valid email address"
	}
	if strings.TrimSpace(d.Address) == "" {
		errs["address"] = "Delivery address is required"
	}
	if method == PaymentUPI {
		if strings.TrimSpace(upiID) == "" {
			errs["upiId"] = "UPI ID is required"
		} else if !upiRe.MatchString(upiID) {
			errs["upiId"] = "Please enter a valid UPI ID"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
