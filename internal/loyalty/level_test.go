package loyalty

import (
	"testing"

	"github.com/levelup-gaming/levelup-backend/pkg/enums"
)

func TestLevelForBoundaries(t *testing.T) {
	tests := []struct {
		points int
		want   enums.LoyaltyLevel
	}{
		{0, enums.LoyaltyLevelBronze},
		{499, enums.LoyaltyLevelBronze},
		{500, enums.LoyaltyLevelSilver},
		{999, enums.LoyaltyLevelSilver},
		{1000, enums.LoyaltyLevelGold},
		{1999, enums.LoyaltyLevelGold},
		{2000, enums.LoyaltyLevelDiamond},
		{100000, enums.LoyaltyLevelDiamond},
	}

	for _, tt := range tests {
		if got := LevelFor(tt.points); got != tt.want {
			t.Fatalf("LevelFor(%d) = %s, want %s", tt.points, got, tt.want)
		}
	}
}

func TestLevelForNegativeBalance(t *testing.T) {
	if got := LevelFor(-50); got != enums.LoyaltyLevelBronze {
		t.Fatalf("LevelFor(-50) = %s, want bronze", got)
	}
}

func TestLevelCanGoDown(t *testing.T) {
	before := LevelFor(1200)
	after := LevelFor(1200 - 800)
	if before != enums.LoyaltyLevelGold || after != enums.LoyaltyLevelBronze {
		t.Fatalf("spending points must demote: %s -> %s", before, after)
	}
}

func TestPointsToNext(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{0, 500},
		{499, 1},
		{500, 500},
		{1500, 500},
		{2000, 0},
		{9999, 0},
	}

	for _, tt := range tests {
		if got := PointsToNext(tt.points); got != tt.want {
			t.Fatalf("PointsToNext(%d) = %d, want %d", tt.points, got, tt.want)
		}
	}
}
