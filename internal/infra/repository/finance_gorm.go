package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "github.com/plushify/plushify-api/internal/domain/finance"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/models"
)

type FinanceGormRepository struct {
	db *gorm.DB
}

func NewFinanceGormRepository(db *gorm.DB) *FinanceGormRepository {
	return &FinanceGormRepository{db: db}
}

// --------------------------------------------------
// Payment methods
// --------------------------------------------------

func (r *FinanceGormRepository) ListPaymentMethods(ctx context.Context, businessID uint) ([]models.PaymentMethod, error) {
	var list []models.PaymentMethod
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("name ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *FinanceGormRepository) CreatePaymentMethod(ctx context.Context, m *models.PaymentMethod) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *FinanceGormRepository) FindPaymentMethodByName(ctx context.Context, businessID uint, name string) (*models.PaymentMethod, error) {
	var m models.PaymentMethod
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND LOWER(name) = ?", businessID, strings.ToLower(strings.TrimSpace(name))).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// --------------------------------------------------
// Expenses
// --------------------------------------------------

func (r *FinanceGormRepository) CreateExpense(ctx context.Context, e *models.Expense) error {
	return r.db.WithContext(ctx).Omit("PaymentMethod").Create(e).Error
}

func (r *FinanceGormRepository) CreateExpenses(ctx context.Context, list []models.Expense) error {
	if len(list) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("PaymentMethod").CreateInBatches(list, 100).Error
}

func (r *FinanceGormRepository) ListExpensesForPeriod(ctx context.Context, businessID uint, start, end time.Time) ([]models.Expense, error) {
	var list []models.Expense
	if err := r.db.WithContext(ctx).
		Preload("PaymentMethod").
		Where("business_id = ? AND expense_date >= ? AND expense_date < ?", businessID, start, end).
		Order("expense_date DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *FinanceGormRepository) DeleteExpense(ctx context.Context, businessID, expenseID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", expenseID, businessID).
		Delete(&models.Expense{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --------------------------------------------------
// Cash closures
// --------------------------------------------------

// CreateCashClosure relies on the (business_id, closure_date) unique index.
func (r *FinanceGormRepository) CreateCashClosure(ctx context.Context, c *models.CashClosure) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CashClosure{}).
		Where("business_id = ? AND closure_date = ?", c.BusinessID, c.ClosureDate).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return httperr.ErrBusiness("cash_closure_exists")
	}

	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return httperr.ErrBusiness("cash_closure_exists")
		}
		return err
	}
	return nil
}

func (r *FinanceGormRepository) ListCashClosures(ctx context.Context, businessID uint, start, end time.Time) ([]models.CashClosure, error) {
	var list []models.CashClosure
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND closure_date >= ? AND closure_date < ?", businessID, start, end).
		Order("closure_date DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

var _ domain.Repository = (*FinanceGormRepository)(nil)
