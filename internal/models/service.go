package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is an item of the business catalog (e.g. "Corte", "Limpeza de pele").
type Service struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index" json:"business_id"`

	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"size:255" json:"description"`
	DurationMin int             `json:"duration_min"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Category    string          `gorm:"size:50" json:"category"`
	Active      bool            `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
