package types

import (
	"fmt"
	"strings"
)

// ShippingAddress is the address snapshot stored on orders and users.
// Regions and communes follow the Chilean administrative division names
// the storefront presents at checkout.
type ShippingAddress struct {
	Name       string  `json:"name"`
	Street     string  `json:"street"`
	Number     string  `json:"number"`
	Apartment  *string `json:"apartment,omitempty"`
	City       string  `json:"city"`
	Commune    *string `json:"commune,omitempty"`
	Region     string  `json:"region"`
	PostalCode *string `json:"postal_code,omitempty"`
	Phone      string  `json:"phone"`
}

// Validate checks the fields a courier needs to deliver. The error
// names the first missing one.
func (a ShippingAddress) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"name", a.Name},
		{"street", a.Street},
		{"number", a.Number},
		{"city", a.City},
		{"region", a.Region},
		{"phone", a.Phone},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s is required", field.name)
		}
	}
	return nil
}
