package enums

import "fmt"

// LoyaltyLevel is the tier a user reaches through accumulated points.
type LoyaltyLevel string

const (
	LoyaltyLevelBronze  LoyaltyLevel = "bronze"
	LoyaltyLevelSilver  LoyaltyLevel = "silver"
	LoyaltyLevelGold    LoyaltyLevel = "gold"
	LoyaltyLevelDiamond LoyaltyLevel = "diamond"
)

var validLoyaltyLevels = []LoyaltyLevel{
	LoyaltyLevelBronze,
	LoyaltyLevelSilver,
	LoyaltyLevelGold,
	LoyaltyLevelDiamond,
}

// String implements fmt.Stringer.
func (l LoyaltyLevel) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LoyaltyLevel.
func (l LoyaltyLevel) IsValid() bool {
	for _, candidate := range validLoyaltyLevels {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLoyaltyLevel converts raw input into a LoyaltyLevel.
func ParseLoyaltyLevel(value string) (LoyaltyLevel, error) {
	for _, candidate := range validLoyaltyLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid loyalty level %q", value)
}
