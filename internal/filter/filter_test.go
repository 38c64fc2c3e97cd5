package filter

import (
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	date     time.Time
	status   string
	text     []string
	amount   *decimal.Decimal
	category string
	method   string
}

func (r row) FilterDate() time.Time { return r.date }
func (r row) FilterStatus() string { return r.status }
func (r row) FilterText() []string { return r.text }
func (r row) FilterCategory() string { return r.category }
func (r row) FilterPaymentMethod() string { return r.method }
func (r row) FilterAmount() (decimal.Decimal, bool) {
	if r.amount == nil {
		return decimal.Zero, false
	}
	return *r.amount, true
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func sample() []row {
	return []row{
		{date: day(2026, 3, 1), status: "agendado", text: []string{"Maria Silva", "Corte"}, amount: dec("80"), category: "cabelo", method: "Pix"},
		{date: day(2026, 3, 5), status: "confirmado", text: []string{"Joana", "Manicure"}, amount: dec("45.50"), category: "unhas", method: "Dinheiro"},
		{date: day(2026, 3, 10), status: "cancelado", text: []string{"Ana Souza", "Escova"}, amount: dec("120"), category: "cabelo", method: "Cartão"},
		{date: time.Time{}, status: "agendado", text: []string{"Sem data"}},
	}
}

func TestApplyWithNoOptionsReturnsInput(t *testing.T) {
	in := sample()
	out := Apply(in, Options{})
	assert.Equal(t, in, out)

	var empty []row
	assert.Empty(t, Apply(empty, Options{}))
}

func TestDateRange(t *testing.T) {
	t.Run("inclusive on both ends", func(t *testing.T) {
		out := Apply(sample(), Options{
			DateFrom: ptr(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
			DateTo:   ptr(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)),
		})
		require.Len(t, out, 2)
		assert.Equal(t, "agendado", out[0].status)
		assert.Equal(t, "confirmado", out[1].status)
	})

	t.Run("only lower bound", func(t *testing.T) {
		out := Apply(sample(), Options{DateFrom: ptr(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))})
		assert.Len(t, out, 2)
	})

	t.Run("only upper bound", func(t *testing.T) {
		out := Apply(sample(), Options{DateTo: ptr(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))})
		assert.Len(t, out, 1)
	})

	t.Run("record without date never matches a bound", func(t *testing.T) {
		out := Apply(sample(), Options{DateTo: ptr(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))})
		for _, r := range out {
			assert.False(t, r.date.IsZero())
		}
	})
}

func TestTextIsCaseInsensitiveSubstring(t *testing.T) {
	out := Apply(sample(), Options{Text: "SOUZA"})
	require.Len(t, out, 1)
	assert.Equal(t, "cancelado", out[0].status)

	assert.Len(t, Apply(sample(), Options{Text: "es"}), 1)
}

func TestSetsAndAmounts(t *testing.T) {
	t.Run("status set", func(t *testing.T) {
		out := Apply(sample(), Options{Statuses: []string{"Agendado", "cancelado"}})
		assert.Len(t, out, 3)
	})

	t.Run("category and payment method combined", func(t *testing.T) {
		out := Apply(sample(), Options{Categories: []string{"cabelo"}, PaymentMethods: []string{"pix"}})
		require.Len(t, out, 1)
		assert.Equal(t, "Pix", out[0].method)
	})

	t.Run("amount range inclusive", func(t *testing.T) {
		out := Apply(sample(), Options{AmountMin: dec("45.50"), AmountMax: dec("80")})
		assert.Len(t, out, 2)
	})

	t.Run("records without amount fail an amount bound", func(t *testing.T) {
		out := Apply(sample(), Options{AmountMin: dec("0")})
		assert.Len(t, out, 3)
	})
}

type values url.Values

func (v values) Query(key string) string { return url.Values(v).Get(key) }

func TestParseOptions(t *testing.T) {
	t.Run("parses every field", func(t *testing.T) {
		q := values{
			"date_from":      {"2026-03-01"},
			"date_to":        {"2026-03-31"},
			"status":         {"agendado, confirmado"},
			"q":              {"  maria "},
			"amount_min":     {"10,50"},
			"amount_max":     {"200"},
			"category":       {"cabelo"},
			"payment_method": {"pix,cartão"},
		}

		opts, err := ParseOptions(q, time.UTC)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *opts.DateFrom)
		assert.Equal(t, []string{"agendado", "confirmado"}, opts.Statuses)
		assert.Equal(t, "maria", opts.Text)
		assert.True(t, opts.AmountMin.Equal(decimal.RequireFromString("10.50")))
		assert.Equal(t, []string{"pix", "cartão"}, opts.PaymentMethods)
	})

	t.Run("empty query is zero options", func(t *testing.T) {
		opts, err := ParseOptions(values{}, nil)
		require.NoError(t, err)
		assert.True(t, opts.IsZero())
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		_, err := ParseOptions(values{"date_from": {"31/03/2026"}}, time.UTC)
		assert.ErrorIs(t, err, ErrInvalidOption)
	})

	t.Run("malformed amount is rejected", func(t *testing.T) {
		_, err := ParseOptions(values{"amount_max": {"abc"}}, time.UTC)
		assert.ErrorIs(t, err, ErrInvalidOption)
	})
}

type stockItem struct {
	name       string
	stock, min int
}

func (s stockItem) IsLowStock() bool { return s.stock <= s.min }

func TestLowStock(t *testing.T) {
	items := []stockItem{{"shampoo", 2, 5}, {"esmalte", 10, 3}, {"luva", 3, 3}}

	got := LowStock(items)

	assert.Equal(t, []stockItem{{"shampoo", 2, 5}, {"luva", 3, 3}}, got)
	assert.Empty(t, LowStock([]stockItem{}))
}

func TestWindow(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	now := time.Date(2026, 5, 20, 10, 0, 0, 0, loc)

	start, end := Window(Options{}, loc, now)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, loc), end)

	from := time.Date(2026, 1, 10, 0, 0, 0, 0, loc)
	to := time.Date(2026, 1, 12, 0, 0, 0, 0, loc)
	start, end = Window(Options{DateFrom: &from, DateTo: &to}, loc, now)
	assert.Equal(t, from, start)
	assert.Equal(t, time.Date(2026, 1, 13, 0, 0, 0, 0, loc), end)

	start, end = Window(Options{DateTo: &to}, loc, now)
	assert.Equal(t, time.Date(2025, 12, 13, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 1, 13, 0, 0, 0, 0, loc), end)
}
