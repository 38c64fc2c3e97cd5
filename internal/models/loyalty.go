package models

import "time"

type LoyaltyAccount struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index" json:"business_id"`
	ClientID   uint `gorm:"uniqueIndex" json:"client_id"`

	Points         int    `json:"points"`
	LifetimePoints int    `json:"lifetime_points"`
	Level          string `gorm:"size:20;default:'bronze'" json:"level"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoyaltyEntry records each points movement; an appointment awards at most once.
type LoyaltyEntry struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	AccountID     uint   `gorm:"index" json:"account_id"`
	Points        int    `json:"points"`
	Reason        string `gorm:"size:50" json:"reason"`
	AppointmentID *uint  `gorm:"uniqueIndex" json:"appointment_id"`

	CreatedAt time.Time `json:"created_at"`
}
