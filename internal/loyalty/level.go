package loyalty

import "github.com/levelup-gaming/levelup-backend/pkg/enums"

// Tier thresholds on the lifetime points balance. A level is derived
// from the current balance and recomputed after every balance change;
// levels can go down as well as up when points are spent.
const (
	SilverThreshold  = 500
	GoldThreshold    = 1000
	DiamondThreshold = 2000
)

// LevelFor maps a points balance to its loyalty level.
func LevelFor(points int) enums.LoyaltyLevel {
	switch {
	case points >= DiamondThreshold:
		return enums.LoyaltyLevelDiamond
	case points >= GoldThreshold:
		return enums.LoyaltyLevelGold
	case points >= SilverThreshold:
		return enums.LoyaltyLevelSilver
	default:
		return enums.LoyaltyLevelBronze
	}
}

// PointsToNext returns how many points separate the balance from the
// next tier, or 0 when the balance is already diamond.
func PointsToNext(points int) int {
	switch {
	case points >= DiamondThreshold:
		return 0
	case points >= GoldThreshold:
		return DiamondThreshold - points
	case points >= SilverThreshold:
		return GoldThreshold - points
	default:
		return SilverThreshold - points
	}
}
