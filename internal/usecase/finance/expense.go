package finance

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/plushify/plushify-api/internal/audit"
	domain "github.com/plushify/plushify-api/internal/domain/finance"
	"github.com/plushify/plushify-api/internal/filter"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/models"
)

type CreateExpenseInput struct {
	BusinessID uint
	UserID     uint

	Description     string
	Category        string
	Amount          decimal.Decimal
	ExpenseDate     string // YYYY-MM-DD
	PaymentMethodID *uint
}

type Expenses struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewExpenses(repo domain.Repository, audit *audit.Dispatcher) *Expenses {
	return &Expenses{repo: repo, audit: audit}
}

// BuildExpense validates the input and returns the entity, unsaved.
func BuildExpense(in CreateExpenseInput, loc *time.Location) (*models.Expense, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, httperr.ErrBusiness("invalid_description")
	}
	if !in.Amount.IsPositive() {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(in.ExpenseDate), loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	return &models.Expense{
		BusinessID:      in.BusinessID,
		Description:     strings.TrimSpace(in.Description),
		Category:        strings.TrimSpace(in.Category),
		Amount:          in.Amount.Round(2),
		ExpenseDate:     day,
		PaymentMethodID: in.PaymentMethodID,
	}, nil
}

func (uc *Expenses) Create(ctx context.Context, in CreateExpenseInput, loc *time.Location) (*models.Expense, error) {
	e, err := BuildExpense(in, loc)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     &in.UserID,
		Action:     "expense_created",
		Entity:     "expense",
		EntityID:   &e.ID,
		Metadata: map[string]any{
			"amount":   e.Amount.StringFixed(2),
			"category": e.Category,
		},
	})
	return e, nil
}

// List returns the expenses in [start, end) that match opts.
func (uc *Expenses) List(ctx context.Context, businessID uint, start, end time.Time, opts filter.Options) ([]models.Expense, error) {
	list, err := uc.repo.ListExpensesForPeriod(ctx, businessID, start, end)
	if err != nil {
		return nil, err
	}
	return filter.Apply(list, opts), nil
}

func (uc *Expenses) Delete(ctx context.Context, businessID, userID, expenseID uint) error {
	if err := uc.repo.DeleteExpense(ctx, businessID, expenseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness("expense_not_found")
		}
		return err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     "expense_deleted",
		Entity:     "expense",
		EntityID:   &expenseID,
	})
	return nil
}
