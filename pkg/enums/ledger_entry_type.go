package enums

import "fmt"

// LedgerEntryType classifies movements on a user's points balance.
type LedgerEntryType string

const (
	LedgerEntryTypePointsRedeemed  LedgerEntryType = "points_redeemed"
	LedgerEntryTypePointsEarned    LedgerEntryType = "points_earned"
	LedgerEntryTypePointsRefunded  LedgerEntryType = "points_refunded"
	LedgerEntryTypeAdminAdjustment LedgerEntryType = "admin_adjustment"
)

var validLedgerEntryTypes = []LedgerEntryType{
	LedgerEntryTypePointsRedeemed,
	LedgerEntryTypePointsEarned,
	LedgerEntryTypePointsRefunded,
	LedgerEntryTypeAdminAdjustment,
}

// IsValid reports whether the value matches the canonical ledger entry enum.
func (t LedgerEntryType) IsValid() bool {
	for _, candidate := range validLedgerEntryTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseLedgerEntryType converts raw input into LedgerEntryType.
func ParseLedgerEntryType(value string) (LedgerEntryType, error) {
	for _, candidate := range validLedgerEntryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger entry type %q", value)
}
