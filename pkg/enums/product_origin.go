package enums

import "fmt"

// ProductOrigin separates the regular store catalog from the rewards catalog.
type ProductOrigin string

const (
	ProductOriginStore   ProductOrigin = "store"
	ProductOriginRewards ProductOrigin = "rewards"
)

var validProductOrigins = []ProductOrigin{
	ProductOriginStore,
	ProductOriginRewards,
}

// IsValid reports whether the value is a known ProductOrigin.
func (o ProductOrigin) IsValid() bool {
	for _, candidate := range validProductOrigins {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseProductOrigin converts raw input into a ProductOrigin.
func ParseProductOrigin(value string) (ProductOrigin, error) {
	for _, candidate := range validProductOrigins {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product origin %q", value)
}
