package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGrowth(t *testing.T) {
	tests := []struct {
		name           string
		current, prior string
		want           float64
	}{
		{"increase", "150", "100", 50.0},
		{"decrease", "75", "100", -25.0},
		{"unchanged", "100", "100", 0},
		{"rounds to two decimals", "100", "3", 3233.33},
		{"zero over zero", "0", "0", 0},
		{"positive over zero", "10", "0", 100},
		{"negative over zero", "-10", "0", -100},
		{"negative prior keeps the formula", "-50", "-100", -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Growth(d(tt.current), d(tt.prior)))
		})
	}
}

func TestCompare(t *testing.T) {
	current := PeriodTotals{Revenue: d("150"), Expense: d("40"), Net: d("110")}
	prior := PeriodTotals{Revenue: d("100"), Expense: d("50"), Net: d("50")}

	c := Compare(current, prior)

	assert.Equal(t, 50.0, c.Revenue.Growth)
	assert.True(t, c.Revenue.Delta.Equal(d("50")))
	assert.Equal(t, -20.0, c.Expense.Growth)
	assert.True(t, c.Expense.Delta.Equal(d("-10")))
	assert.Equal(t, 120.0, c.Net.Growth)

	rows := c.Rows()
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"receita", "150.00", "100.00", "50.00", "50.00"}, rows[0].ExportRow())
}
