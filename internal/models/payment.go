package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID uint      `gorm:"index" json:"business_id"`
	Name       string    `gorm:"size:50;not null" json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

type Payment struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index" json:"business_id"`

	ClientID *uint   `json:"client_id"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`

	PaymentMethodID *uint          `json:"payment_method_id"`
	PaymentMethod   *PaymentMethod `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"payment_method,omitempty"`

	AppointmentID *uint `json:"appointment_id"`

	Description string          `gorm:"size:255" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	PaidAmount  decimal.Decimal `gorm:"type:decimal(12,2)" json:"paid_amount"`
	Status      string          `gorm:"size:20;default:'pendente'" json:"status"`

	Installments []Installment `gorm:"constraint:OnDelete:CASCADE;" json:"installments,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Installment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	PaymentID uint `gorm:"index" json:"payment_id"`

	InstallmentNumber int             `json:"installment_number"`
	TotalInstallments int             `json:"total_installments"`
	Amount            decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	DueDate           time.Time       `json:"due_date"`
	PaymentDate       *time.Time      `json:"payment_date"`
	Status            string          `gorm:"size:20;default:'pendente'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
