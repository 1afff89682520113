package enums

import "fmt"

// PaymentMethod maps to the payment options the storefront offers at checkout.
type PaymentMethod string

const (
	PaymentMethodCard        PaymentMethod = "card"
	PaymentMethodCredit      PaymentMethod = "credit"
	PaymentMethodDebit       PaymentMethod = "debit"
	PaymentMethodTransfer    PaymentMethod = "transfer"
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodMach        PaymentMethod = "mach"
	PaymentMethodMercadoPago PaymentMethod = "mercadopago"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodCredit,
	PaymentMethodDebit,
	PaymentMethodTransfer,
	PaymentMethodCash,
	PaymentMethodMach,
	PaymentMethodMercadoPago,
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
