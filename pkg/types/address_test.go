package types

import (
	"strings"
	"testing"
)

func validAddress() ShippingAddress {
	return ShippingAddress{
		Name:   "Valentina Rojas",
		Street: "Av. Providencia",
		Number: "1234",
		City:   "Santiago",
		Region: "Metropolitana",
		Phone:  "+56911112222",
	}
}

func TestShippingAddressValidate(t *testing.T) {
	if err := validAddress().Validate(); err != nil {
		t.Fatalf("complete address: %v", err)
	}

	// Optional fields may stay empty.
	addr := validAddress()
	addr.Apartment = nil
	addr.Commune = nil
	addr.PostalCode = nil
	if err := addr.Validate(); err != nil {
		t.Fatalf("optional fields empty: %v", err)
	}
}

func TestShippingAddressValidateNamesMissingField(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*ShippingAddress)
	}{
		{"name", func(a *ShippingAddress) { a.Name = "" }},
		{"street", func(a *ShippingAddress) { a.Street = "   " }},
		{"number", func(a *ShippingAddress) { a.Number = "" }},
		{"city", func(a *ShippingAddress) { a.City = "" }},
		{"region", func(a *ShippingAddress) { a.Region = "" }},
		{"phone", func(a *ShippingAddress) { a.Phone = "\t" }},
	}
	for _, tc := range cases {
		addr := validAddress()
		tc.mutate(&addr)
		err := addr.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.field)
		}
		if !strings.Contains(err.Error(), tc.field) {
			t.Fatalf("%s: error %q does not name the field", tc.field, err)
		}
	}
}
