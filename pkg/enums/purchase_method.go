package enums

import "fmt"

// PurchaseMethod distinguishes money purchases from points redemptions.
type PurchaseMethod string

const (
	PurchaseMethodMoney  PurchaseMethod = "money"
	PurchaseMethodPoints PurchaseMethod = "points"
)

var validPurchaseMethods = []PurchaseMethod{
	PurchaseMethodMoney,
	PurchaseMethodPoints,
}

// String implements fmt.Stringer.
func (m PurchaseMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PurchaseMethod.
func (m PurchaseMethod) IsValid() bool {
	for _, candidate := range validPurchaseMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePurchaseMethod converts raw input into a PurchaseMethod.
func ParsePurchaseMethod(value string) (PurchaseMethod, error) {
	for _, candidate := range validPurchaseMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase method %q", value)
}
