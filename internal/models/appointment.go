package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID     uint `gorm:"index" json:"business_id"`
	ProfessionalID uint `json:"professional_id"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	StartTime time.Time       `gorm:"index" json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	Duration  int             `json:"duration"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`

	Status string `gorm:"size:20;default:'agendado'" json:"status"`
	Notes  string `gorm:"size:255" json:"notes"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
