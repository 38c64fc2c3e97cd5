package loyalty

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/models"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		points int
		want   Level
	}{
		{0, LevelBronze},
		{499, LevelBronze},
		{500, LevelSilver},
		{1500, LevelGold},
		{2999, LevelGold},
		{3000, LevelDiamond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.points), "points=%d", tt.points)
	}
}

func TestNextLevel(t *testing.T) {
	lvl, missing, ok := NextLevel(450)
	assert.True(t, ok)
	assert.Equal(t, LevelSilver, lvl)
	assert.Equal(t, 50, missing)

	_, _, ok = NextLevel(5000)
	assert.False(t, ok)
}

func TestAwardAndRedeem(t *testing.T) {
	acc := &models.LoyaltyAccount{Level: string(LevelBronze)}

	Award(acc, PointsFor(decimal.RequireFromString("520.90")))
	assert.Equal(t, 520, acc.Points)
	assert.Equal(t, string(LevelSilver), acc.Level)

	assert.NoError(t, Redeem(acc, 500))
	assert.Equal(t, 20, acc.Points)
	assert.Equal(t, 520, acc.LifetimePoints)
	assert.Equal(t, string(LevelSilver), acc.Level)

	assert.True(t, httperr.IsBusiness(Redeem(acc, 21), "insufficient_points"))
	assert.True(t, httperr.IsBusiness(Redeem(acc, 0), "invalid_points"))
}
