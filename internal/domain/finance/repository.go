package finance

import (
	"context"
	"time"

	"github.com/plushify/plushify-api/internal/models"
)

type Repository interface {
	// -------- Payment methods --------
	ListPaymentMethods(ctx context.Context, businessID uint) ([]models.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, m *models.PaymentMethod) error
	FindPaymentMethodByName(ctx context.Context, businessID uint, name string) (*models.PaymentMethod, error)

	// -------- Expenses --------
	CreateExpense(ctx context.Context, e *models.Expense) error
	CreateExpenses(ctx context.Context, list []models.Expense) error
	ListExpensesForPeriod(ctx context.Context, businessID uint, start, end time.Time) ([]models.Expense, error)
	DeleteExpense(ctx context.Context, businessID, expenseID uint) error

	// -------- Cash closures --------
	CreateCashClosure(ctx context.Context, c *models.CashClosure) error
	ListCashClosures(ctx context.Context, businessID uint, start, end time.Time) ([]models.CashClosure, error)
}
