package inventory

import (
	"context"

	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/models"
)

// AdjustStock applies delta; stock never goes below zero.
func AdjustStock(p *models.Product, delta int) error {
	if delta == 0 {
		return httperr.ErrBusiness("invalid_quantity")
	}
	if p.Stock+delta < 0 {
		return httperr.ErrBusiness("insufficient_stock")
	}
	p.Stock += delta
	return nil
}

func ValidateProduct(p *models.Product) error {
	if p.Stock < 0 || p.MinStock < 0 {
		return httperr.ErrBusiness("invalid_quantity")
	}
	if p.Price.IsNegative() {
		return httperr.ErrBusiness("invalid_amount")
	}
	return nil
}

type Repository interface {
	ListProducts(ctx context.Context, businessID uint) ([]models.Product, error)
	GetProduct(ctx context.Context, businessID, productID uint) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	CreateProducts(ctx context.Context, list []models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	// AdjustStock changes stock atomically; the row is locked while checked.
	AdjustStock(ctx context.Context, businessID, productID uint, delta int) (*models.Product, error)
}
