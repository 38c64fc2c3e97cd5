package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index" json:"business_id"`

	Name     string          `gorm:"size:100;not null" json:"name"`
	Category string          `gorm:"size:50" json:"category"`
	Stock    int             `json:"stock"`
	MinStock int             `json:"min_stock"`
	Barcode  *string         `gorm:"size:64" json:"barcode,omitempty"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	ImageKey string          `gorm:"size:255" json:"image_key,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
