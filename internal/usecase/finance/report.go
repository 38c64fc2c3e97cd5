package finance

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/plushify/plushify-api/internal/domain/finance"
	domainpay "github.com/plushify/plushify-api/internal/domain/payment"
	"github.com/plushify/plushify-api/internal/filter"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/report"
)

type Summary struct {
	Range  report.Range        `json:"range"`
	Totals report.PeriodTotals `json:"totals"`

	ExpensesByCategory report.Grouping `json:"expenses_by_category"`
	PaymentsByMethod   report.Grouping `json:"payments_by_method"`

	Payments []models.Payment `json:"-"`
	Expenses []models.Expense `json:"-"`
}

type Comparative struct {
	Period     report.Period     `json:"period"`
	Current    report.Range      `json:"current"`
	Prior      report.Range      `json:"prior"`
	Comparison report.Comparison `json:"comparison"`
}

type Reports struct {
	payments domainpay.Repository
	expenses domain.Repository
}

func NewReports(payments domainpay.Repository, expenses domain.Repository) *Reports {
	return &Reports{payments: payments, expenses: expenses}
}

// Summary fetches both datasets for r, narrows them with opts and reduces
// them to totals and grouped subtotals.
func (uc *Reports) Summary(ctx context.Context, businessID uint, r report.Range, opts filter.Options) (*Summary, error) {
	payments, expenses, err := uc.fetch(ctx, businessID, r)
	if err != nil {
		return nil, err
	}

	// date predicates compare calendar days in the business zone
	loc := r.From.Location()
	for i := range payments {
		payments[i].CreatedAt = payments[i].CreatedAt.In(loc)
	}
	for i := range expenses {
		expenses[i].ExpenseDate = expenses[i].ExpenseDate.In(loc)
	}

	payments = filter.Apply(payments, opts)
	expenses = filter.Apply(expenses, opts)

	return &Summary{
		Range:              r,
		Totals:             report.Totals(payments, expenses),
		ExpensesByCategory: report.SubtotalsByCategory(expenses),
		PaymentsByMethod:   report.RevenueByPaymentMethod(payments),
		Payments:           payments,
		Expenses:           expenses,
	}, nil
}

// Comparative compares the period containing ref against the one before it.
func (uc *Reports) Comparative(ctx context.Context, businessID uint, p report.Period, ref time.Time) (*Comparative, error) {
	current := p.Range(ref)
	prior := p.Prior(current)

	var totals [2]report.PeriodTotals
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range []report.Range{current, prior} {
		g.Go(func() error {
			payments, expenses, err := uc.fetch(gctx, businessID, r)
			if err != nil {
				return err
			}
			totals[i] = report.Totals(payments, expenses)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Comparative{
		Period:     p,
		Current:    current,
		Prior:      prior,
		Comparison: report.Compare(totals[0], totals[1]),
	}, nil
}

func (uc *Reports) fetch(ctx context.Context, businessID uint, r report.Range) ([]models.Payment, []models.Expense, error) {
	payments, err := uc.payments.ListPaymentsForPeriod(ctx, businessID, r.From, r.To)
	if err != nil {
		return nil, nil, err
	}
	expenses, err := uc.expenses.ListExpensesForPeriod(ctx, businessID, r.From, r.To)
	if err != nil {
		return nil, nil, err
	}
	return payments, expenses, nil
}
