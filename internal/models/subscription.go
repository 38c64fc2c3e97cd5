package models

import "time"

type Subscription struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"uniqueIndex" json:"business_id"`

	Tier   string `gorm:"size:20;default:'trial'" json:"tier"`
	Status string `gorm:"size:20;default:'trial'" json:"status"`

	TrialEndsAt      time.Time  `json:"trial_ends_at"`
	ExternalID       string     `gorm:"size:64;index" json:"external_id,omitempty"`
	ExternalRef      string     `gorm:"size:64" json:"-"`
	CurrentPeriodEnd *time.Time `json:"current_period_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
