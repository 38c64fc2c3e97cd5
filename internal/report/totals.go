package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	domainpay "github.com/plushify/plushify-api/internal/domain/payment"
	"github.com/plushify/plushify-api/internal/models"
)

// Totals: revenue is what was actually received on payments that still
// count (cancelled and deleted ones do not), expense is every expense.
func Totals(payments []models.Payment, expenses []models.Expense) PeriodTotals {
	var t PeriodTotals
	for _, p := range payments {
		if !countsAsRevenue(domainpay.Status(p.Status)) {
			continue
		}
		t.Revenue = t.Revenue.Add(p.PaidAmount)
	}
	for _, e := range expenses {
		t.Expense = t.Expense.Add(e.Amount)
	}
	t.Net = t.Revenue.Sub(t.Expense)
	return t
}

func countsAsRevenue(s domainpay.Status) bool {
	return s != domainpay.StatusCancelled && s != domainpay.StatusDeleted
}

// TotalRow is one line of an exported period summary.
type TotalRow struct {
	Name   string
	Amount decimal.Decimal
}

func (t PeriodTotals) Rows() []TotalRow {
	return []TotalRow{
		{Name: "receita", Amount: t.Revenue},
		{Name: "despesa", Amount: t.Expense},
		{Name: "saldo", Amount: t.Net},
	}
}

func (r TotalRow) ExportHeaders() []string { return []string{"metric", "amount"} }
func (r TotalRow) ExportRow() []string     { return []string{r.Name, r.Amount.StringFixed(2)} }

// ====================================================
// Subtotais agrupados (PDF)
// ====================================================

type Subtotal struct {
	Label string          `json:"label"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type Grouping struct {
	Title string          `json:"title"`
	Lines []Subtotal      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// Amounted is what grouping needs from a record.
type Amounted interface {
	FilterAmount() (decimal.Decimal, bool)
}

const unlabeled = "Não informado"

// GroupBy sums records per key. Labels compare case-insensitively and are
// sorted; the first spelling seen is kept.
func GroupBy[T Amounted](title string, records []T, key func(T) string) Grouping {
	g := Grouping{Title: title, Lines: []Subtotal{}}
	index := make(map[string]int)

	for _, r := range records {
		amount, ok := r.FilterAmount()
		if !ok {
			continue
		}
		label := strings.TrimSpace(key(r))
		if label == "" {
			label = unlabeled
		}
		k := strings.ToLower(label)
		i, seen := index[k]
		if !seen {
			i = len(g.Lines)
			index[k] = i
			g.Lines = append(g.Lines, Subtotal{Label: label})
		}
		g.Lines[i].Count++
		g.Lines[i].Total = g.Lines[i].Total.Add(amount)
		g.Total = g.Total.Add(amount)
	}

	sort.SliceStable(g.Lines, func(a, b int) bool {
		return strings.ToLower(g.Lines[a].Label) < strings.ToLower(g.Lines[b].Label)
	})
	return g
}

func SubtotalsByCategory[T interface {
	Amounted
	FilterCategory() string
}](records []T) Grouping {
	return GroupBy("Por categoria", records, func(r T) string { return r.FilterCategory() })
}

func SubtotalsByPaymentMethod[T interface {
	Amounted
	FilterPaymentMethod() string
}](records []T) Grouping {
	return GroupBy("Por forma de pagamento", records, func(r T) string { return r.FilterPaymentMethod() })
}

type methodRevenue struct {
	method string
	paid   decimal.Decimal
}

func (m methodRevenue) FilterAmount() (decimal.Decimal, bool) { return m.paid, true }

// RevenueByPaymentMethod splits Totals' revenue per payment method: only
// payments that count as revenue, summed by what was received.
func RevenueByPaymentMethod(payments []models.Payment) Grouping {
	rows := make([]methodRevenue, 0, len(payments))
	for _, p := range payments {
		if !countsAsRevenue(domainpay.Status(p.Status)) {
			continue
		}
		rows = append(rows, methodRevenue{method: p.MethodName(), paid: p.PaidAmount})
	}
	return GroupBy("Por forma de pagamento", rows, func(m methodRevenue) string { return m.method })
}
