package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/plushify/plushify-api/internal/domain/inventory"
	"github.com/plushify/plushify-api/internal/models"
)

type ProductGormRepository struct {
	db *gorm.DB
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) ListProducts(ctx context.Context, businessID uint) ([]models.Product, error) {
	var list []models.Product
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("name ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductGormRepository) GetProduct(ctx context.Context, businessID, productID uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", productID, businessID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductGormRepository) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductGormRepository) CreateProducts(ctx context.Context, list []models.Product) error {
	if len(list) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(list, 100).Error
}

func (r *ProductGormRepository) UpdateProduct(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).
		Model(p).
		Select("name", "category", "min_stock", "barcode", "price", "image_key", "updated_at").
		Updates(p).Error
}

func (r *ProductGormRepository) AdjustStock(ctx context.Context, businessID, productID uint, delta int) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND business_id = ?", productID, businessID).
			First(&p).Error; err != nil {
			return err
		}
		if err := domain.AdjustStock(&p, delta); err != nil {
			return err
		}
		return tx.Model(&models.Product{}).
			Where("id = ?", p.ID).
			Updates(map[string]any{"stock": p.Stock, "updated_at": time.Now()}).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var _ domain.Repository = (*ProductGormRepository)(nil)
