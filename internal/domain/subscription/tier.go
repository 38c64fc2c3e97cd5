package subscription

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plushify/plushify-api/internal/models"
)

type Tier string

const (
	TierTrial        Tier = "trial"
	TierProfessional Tier = "professional"
	TierEnterprise   Tier = "enterprise"
)

type Status string

const (
	StatusTrial     Status = "trial"
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

type Feature string

const (
	FeatureAppointments Feature = "appointments"
	FeatureClients      Feature = "clients"
	FeatureFinance      Feature = "finance"
	FeatureBasicExport  Feature = "export_basic"
	FeatureRichExport   Feature = "export_rich"
	FeatureComparative  Feature = "reports_comparative"
	FeatureInventory    Feature = "inventory"
	FeatureLoyalty      Feature = "loyalty"
	FeatureReminders    Feature = "reminders"
	FeatureArchive      Feature = "export_archive"
)

var baseFeatures = []Feature{
	FeatureAppointments,
	FeatureClients,
	FeatureFinance,
	FeatureBasicExport,
}

var professionalFeatures = append(append([]Feature{}, baseFeatures...),
	FeatureRichExport,
	FeatureComparative,
	FeatureInventory,
	FeatureLoyalty,
)

var enterpriseFeatures = append(append([]Feature{}, professionalFeatures...),
	FeatureReminders,
	FeatureArchive,
)

// AllFeatures lists every gated feature, in display order.
var AllFeatures = enterpriseFeatures

// Plan is what a paid tier costs per month.
type Plan struct {
	Tier   Tier
	Reason string
	Price  decimal.Decimal
}

var Plans = map[Tier]Plan{
	TierProfessional: {TierProfessional, "Plushify Profissional", decimal.RequireFromString("79.90")},
	TierEnterprise:   {TierEnterprise, "Plushify Empresarial", decimal.RequireFromString("199.90")},
}

func FeaturesOf(t Tier) []Feature {
	switch t {
	case TierEnterprise:
		return enterpriseFeatures
	case TierProfessional:
		return professionalFeatures
	default:
		return baseFeatures
	}
}

func NewTrial(businessID uint, now time.Time, trialDays int) models.Subscription {
	return models.Subscription{
		BusinessID:  businessID,
		Tier:        string(TierTrial),
		Status:      string(StatusTrial),
		TrialEndsAt: now.AddDate(0, 0, trialDays),
	}
}

// IsUsable reports whether the tenant may use the product at all right now.
func IsUsable(s *models.Subscription, now time.Time) bool {
	switch Status(s.Status) {
	case StatusActive:
		return true
	case StatusTrial, StatusPending:
		// pending checkout keeps the trial alive until it ends
		return now.Before(s.TrialEndsAt)
	case StatusCancelled:
		return s.CurrentPeriodEnd != nil && now.Before(*s.CurrentPeriodEnd)
	default:
		return false
	}
}

// Allows reports whether the subscription grants the feature at now.
func Allows(s *models.Subscription, f Feature, now time.Time) bool {
	if !IsUsable(s, now) {
		return false
	}
	tier := Tier(s.Tier)
	if Status(s.Status) != StatusActive && Status(s.Status) != StatusCancelled {
		tier = TierTrial
	}
	for _, have := range FeaturesOf(tier) {
		if have == f {
			return true
		}
	}
	return false
}

// StatusFromProcessor maps a MercadoPago preapproval status.
func StatusFromProcessor(status string) Status {
	switch status {
	case "authorized":
		return StatusActive
	case "cancelled":
		return StatusCancelled
	case "paused":
		return StatusExpired
	default:
		return StatusPending
	}
}
