package checkout

import (
	"fmt"
	"strings"

	"coursemarket/internal/domain"
)

// PaymentForm is what the buyer submits on the checkout page.
type PaymentForm struct {
	Email          string `json:"email"`
	CardNumber     string `json:"cardNumber"`
	ExpiryDate     string `json:"expiryDate"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholderName"`
	BillingAddress string `json:"billingAddress,omitempty"`
	City           string `json:"city,omitempty"`
	Country        string `json:"country,omitempty"`
	ZipCode        string `json:"zipCode,omitempty"`
}

// Validate requires the contact and card fields. Blank values count as missing.
func (f PaymentForm) Validate() error {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"email", f.Email},
		{"cardNumber", f.CardNumber},
		{"expiryDate", f.ExpiryDate},
		{"cvv", f.CVV},
		{"cardholderName", f.CardholderName},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", domain.ErrInvalid, strings.Join(missing, ", "))
	}
	return nil
}
