package loyalty

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/models"
)

// ErrAlreadyAwarded: the appointment was credited before.
var ErrAlreadyAwarded = errors.New("loyalty: appointment already awarded")

type Level string

const (
	LevelBronze  Level = "bronze"
	LevelSilver  Level = "prata"
	LevelGold    Level = "ouro"
	LevelDiamond Level = "diamante"
)

type tier struct {
	level     Level
	minPoints int
}

// ordered from the highest threshold down
var tiers = []tier{
	{LevelDiamond, 3000},
	{LevelGold, 1500},
	{LevelSilver, 500},
	{LevelBronze, 0},
}

// LevelFor uses lifetime points, so redeeming never demotes a client.
func LevelFor(lifetimePoints int) Level {
	for _, t := range tiers {
		if lifetimePoints >= t.minPoints {
			return t.level
		}
	}
	return LevelBronze
}

// NextLevel returns the next level and the points still missing, or ok=false at the top.
func NextLevel(lifetimePoints int) (Level, int, bool) {
	for i := len(tiers) - 1; i >= 0; i-- {
		if lifetimePoints < tiers[i].minPoints {
			return tiers[i].level, tiers[i].minPoints - lifetimePoints, true
		}
	}
	return "", 0, false
}

// PointsFor awards one point per whole currency unit.
func PointsFor(price decimal.Decimal) int {
	if !price.IsPositive() {
		return 0
	}
	return int(price.Floor().IntPart())
}

func Award(acc *models.LoyaltyAccount, points int) {
	if points <= 0 {
		return
	}
	acc.Points += points
	acc.LifetimePoints += points
	acc.Level = string(LevelFor(acc.LifetimePoints))
}

func Redeem(acc *models.LoyaltyAccount, points int) error {
	if points <= 0 {
		return httperr.ErrBusiness("invalid_points")
	}
	if points > acc.Points {
		return httperr.ErrBusiness("insufficient_points")
	}
	acc.Points -= points
	return nil
}
