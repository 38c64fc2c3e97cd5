package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/plushify/plushify-api/internal/domain/subscription"
	"github.com/plushify/plushify-api/internal/models"
)

type SubscriptionGormRepository struct {
	db *gorm.DB
}

func NewSubscriptionGormRepository(db *gorm.DB) *SubscriptionGormRepository {
	return &SubscriptionGormRepository{db: db}
}

func (r *SubscriptionGormRepository) GetByBusiness(ctx context.Context, businessID uint) (*models.Subscription, error) {
	var s models.Subscription
	if err := r.db.WithContext(ctx).Where("business_id = ?", businessID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionGormRepository) GetByExternalRef(ctx context.Context, ref string) (*models.Subscription, error) {
	var s models.Subscription
	if err := r.db.WithContext(ctx).Where("external_ref = ?", ref).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionGormRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Subscription, error) {
	var s models.Subscription
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionGormRepository) Create(ctx context.Context, s *models.Subscription) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SubscriptionGormRepository) Save(ctx context.Context, s *models.Subscription) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SubscriptionGormRepository) ExpireTrials(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("status IN ? AND trial_ends_at <= ?",
			[]string{string(domain.StatusTrial), string(domain.StatusPending)}, now).
		Updates(map[string]any{"status": string(domain.StatusExpired), "updated_at": now})
	return res.RowsAffected, res.Error
}

// BusinessIDsWithFeature filters in Go; subscriptions are one row per tenant.
func (r *SubscriptionGormRepository) BusinessIDsWithFeature(ctx context.Context, f domain.Feature, now time.Time) ([]uint, error) {
	var subs []models.Subscription
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []string{
			string(domain.StatusActive),
			string(domain.StatusCancelled),
			string(domain.StatusTrial),
			string(domain.StatusPending),
		}).
		Find(&subs).Error; err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(subs))
	for i := range subs {
		if domain.Allows(&subs[i], f, now) {
			ids = append(ids, subs[i].BusinessID)
		}
	}
	return ids, nil
}

var _ domain.Repository = (*SubscriptionGormRepository)(nil)
