// Package report reduces fetched datasets into period totals, grouped
// subtotals and period-over-period comparisons.
package report

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type PeriodTotals struct {
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

type Metric struct {
	Current decimal.Decimal `json:"current"`
	Prior   decimal.Decimal `json:"prior"`
	Delta   decimal.Decimal `json:"delta"`
	Growth  float64         `json:"growth"`
}

type Comparison struct {
	Revenue Metric `json:"revenue"`
	Expense Metric `json:"expense"`
	Net     Metric `json:"net"`
}

// Growth is (current - prior) / prior * 100 rounded to two decimals.
// With prior = 0 there is no base: 0 when current is also 0, otherwise
// 100 carrying the sign of current.
func Growth(current, prior decimal.Decimal) float64 {
	if prior.IsZero() {
		switch current.Sign() {
		case 0:
			return 0
		case 1:
			return 100
		default:
			return -100
		}
	}
	g := current.Sub(prior).Div(prior).Mul(hundred).Round(2)
	f, _ := g.Float64()
	return f
}

func NewMetric(current, prior decimal.Decimal) Metric {
	return Metric{
		Current: current,
		Prior:   prior,
		Delta:   current.Sub(prior),
		Growth:  Growth(current, prior),
	}
}

func Compare(current, prior PeriodTotals) Comparison {
	return Comparison{
		Revenue: NewMetric(current.Revenue, prior.Revenue),
		Expense: NewMetric(current.Expense, prior.Expense),
		Net:     NewMetric(current.Net, prior.Net),
	}
}

// MetricRow is one line of an exported comparison.
type MetricRow struct {
	Name string
	Metric
}

func (c Comparison) Rows() []MetricRow {
	return []MetricRow{
		{Name: "receita", Metric: c.Revenue},
		{Name: "despesa", Metric: c.Expense},
		{Name: "saldo", Metric: c.Net},
	}
}

func (r MetricRow) ExportHeaders() []string {
	return []string{"metric", "current", "prior", "delta", "growth_pct"}
}

func (r MetricRow) ExportRow() []string {
	return []string{
		r.Name,
		r.Current.StringFixed(2),
		r.Prior.StringFixed(2),
		r.Delta.StringFixed(2),
		decimal.NewFromFloat(r.Growth).StringFixed(2),
	}
}
