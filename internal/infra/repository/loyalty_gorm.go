package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/plushify/plushify-api/internal/domain/loyalty"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/models"
)

type LoyaltyGormRepository struct {
	db *gorm.DB
}

func NewLoyaltyGormRepository(db *gorm.DB) *LoyaltyGormRepository {
	return &LoyaltyGormRepository{db: db}
}

func (r *LoyaltyGormRepository) GetOrCreateAccount(ctx context.Context, businessID, clientID uint) (*models.LoyaltyAccount, error) {
	acc := models.LoyaltyAccount{
		BusinessID: businessID,
		ClientID:   clientID,
		Level:      string(domain.LevelBronze),
	}
	if err := r.db.WithContext(ctx).
		Where(models.LoyaltyAccount{BusinessID: businessID, ClientID: clientID}).
		FirstOrCreate(&acc).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *LoyaltyGormRepository) SaveMovement(ctx context.Context, acc *models.LoyaltyAccount, entry *models.LoyaltyEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if entry.AppointmentID != nil {
			var count int64
			if err := tx.Model(&models.LoyaltyEntry{}).
				Where("appointment_id = ?", *entry.AppointmentID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return domain.ErrAlreadyAwarded
			}
		}

		entry.AccountID = acc.ID
		if err := tx.Create(entry).Error; err != nil {
			if httperr.IsUniqueViolation(err) {
				return domain.ErrAlreadyAwarded
			}
			return err
		}

		return tx.Model(&models.LoyaltyAccount{}).
			Where("id = ?", acc.ID).
			Updates(map[string]any{
				"points":          acc.Points,
				"lifetime_points": acc.LifetimePoints,
				"level":           acc.Level,
			}).Error
	})
}

func (r *LoyaltyGormRepository) ListEntries(ctx context.Context, accountID uint, limit int) ([]models.LoyaltyEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	var list []models.LoyaltyEntry
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

var _ domain.Repository = (*LoyaltyGormRepository)(nil)
