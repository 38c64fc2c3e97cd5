package subscription

import (
	"context"
	"time"

	"github.com/plushify/plushify-api/internal/models"
)

type Repository interface {
	GetByBusiness(ctx context.Context, businessID uint) (*models.Subscription, error)
	GetByExternalRef(ctx context.Context, ref string) (*models.Subscription, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.Subscription, error)
	Create(ctx context.Context, s *models.Subscription) error
	Save(ctx context.Context, s *models.Subscription) error

	// ExpireTrials flips every trial whose window ended before now.
	ExpireTrials(ctx context.Context, now time.Time) (int64, error)

	// BusinessIDsWithFeature lists tenants whose subscription grants f at now.
	BusinessIDsWithFeature(ctx context.Context, f Feature, now time.Time) ([]uint, error)
}
