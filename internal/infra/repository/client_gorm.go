package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/plushify/plushify-api/internal/models"
)

type ClientGormRepository struct {
	db *gorm.DB
}

func NewClientGormRepository(db *gorm.DB) *ClientGormRepository {
	return &ClientGormRepository{db: db}
}

// ListClients matches search against name, phone and email.
func (r *ClientGormRepository) ListClients(ctx context.Context, businessID uint, search string) ([]models.Client, error) {
	q := r.db.WithContext(ctx).Where("business_id = ?", businessID)

	if s := strings.TrimSpace(search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?)", like, like, like)
	}

	var list []models.Client
	if err := q.Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ClientGormRepository) GetClient(ctx context.Context, businessID, clientID uint) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", clientID, businessID).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientGormRepository) CreateClient(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ClientGormRepository) CreateClients(ctx context.Context, list []models.Client) error {
	if len(list) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(list, 100).Error
}

func (r *ClientGormRepository) UpdateClient(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).
		Model(c).
		Select("name", "phone", "email", "birth_date", "notes", "updated_at").
		Updates(c).Error
}
