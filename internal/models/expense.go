package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index" json:"business_id"`

	Description string          `gorm:"size:255;not null" json:"description"`
	Category    string          `gorm:"size:50" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	ExpenseDate time.Time       `gorm:"index" json:"expense_date"`

	PaymentMethodID *uint          `json:"payment_method_id"`
	PaymentMethod   *PaymentMethod `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"payment_method,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CashClosure is the end-of-day reconciliation of received income.
type CashClosure struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	BusinessID  uint            `gorm:"uniqueIndex:idx_closure_business_date" json:"business_id"`
	ClosureDate time.Time       `gorm:"type:date;uniqueIndex:idx_closure_business_date" json:"closure_date"`
	TotalIncome decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_income"`
	Notes       string          `gorm:"size:255" json:"notes"`
	ClosedBy    uint            `json:"closed_by"`

	CreatedAt time.Time `json:"created_at"`
}
