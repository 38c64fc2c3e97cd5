package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/plushify/plushify-api/internal/models"
)

func TestClosureIncome(t *testing.T) {
	paid := []models.Installment{
		{Amount: decimal.RequireFromString("33.33"), Status: "pago"},
		{Amount: decimal.RequireFromString("100"), Status: "pago"},
		{Amount: decimal.RequireFromString("50"), Status: "pendente"},
	}

	assert.True(t, ClosureIncome(paid).Equal(decimal.RequireFromString("133.33")))
	assert.True(t, ClosureIncome(nil).IsZero())
}

func TestClosureDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	got := ClosureDay(time.Date(2026, 5, 4, 21, 15, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 5, 4, 0, 0, 0, 0, loc), got)
}
