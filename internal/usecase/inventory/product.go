package inventory

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/plushify/plushify-api/internal/audit"
	domain "github.com/plushify/plushify-api/internal/domain/inventory"
	"github.com/plushify/plushify-api/internal/filter"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/infra/imaging"
	"github.com/plushify/plushify-api/internal/infra/storage"
	"github.com/plushify/plushify-api/internal/models"
)

type ProductInput struct {
	Name     string
	Category string
	Stock    int
	MinStock int
	Barcode  *string
	Price    decimal.Decimal
}

type Products struct {
	repo  domain.Repository
	store storage.ObjectStore
	audit *audit.Dispatcher
}

// NewProducts: store may be nil; image upload then reports storage_unavailable.
func NewProducts(repo domain.Repository, store storage.ObjectStore, audit *audit.Dispatcher) *Products {
	return &Products{repo: repo, store: store, audit: audit}
}

func (uc *Products) List(ctx context.Context, businessID uint, opts filter.Options, lowOnly bool) ([]models.Product, error) {
	list, err := uc.repo.ListProducts(ctx, businessID)
	if err != nil {
		return nil, err
	}
	list = filter.Apply(list, opts)
	if lowOnly {
		list = filter.LowStock(list)
	}
	return list, nil
}

// BuildProduct validates the input and returns the entity, unsaved.
func BuildProduct(businessID uint, in ProductInput) (*models.Product, error) {
	p := &models.Product{
		BusinessID: businessID,
		Name:       strings.TrimSpace(in.Name),
		Category:   strings.TrimSpace(in.Category),
		Stock:      in.Stock,
		MinStock:   in.MinStock,
		Barcode:    cleanBarcode(in.Barcode),
		Price:      in.Price.Round(2),
	}
	if p.Name == "" {
		return nil, httperr.ErrBusiness("invalid_name")
	}
	if err := domain.ValidateProduct(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *Products) Create(ctx context.Context, businessID uint, in ProductInput) (*models.Product, error) {
	p, err := BuildProduct(businessID, in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update changes the descriptive fields. Stock only moves through AdjustStock.
func (uc *Products) Update(ctx context.Context, businessID, productID uint, in ProductInput) (*models.Product, error) {
	p, err := uc.get(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}

	next, err := BuildProduct(businessID, ProductInput{
		Name:     in.Name,
		Category: in.Category,
		Stock:    p.Stock,
		MinStock: in.MinStock,
		Barcode:  in.Barcode,
		Price:    in.Price,
	})
	if err != nil {
		return nil, err
	}

	p.Name = next.Name
	p.Category = next.Category
	p.MinStock = next.MinStock
	p.Barcode = next.Barcode
	p.Price = next.Price
	p.UpdatedAt = time.Now()

	if err := uc.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AdjustStock applies delta (entrada > 0, saída < 0). Stock never goes negative.
func (uc *Products) AdjustStock(ctx context.Context, businessID, userID, productID uint, delta int, reason string) (*models.Product, error) {
	p, err := uc.repo.AdjustStock(ctx, businessID, productID, delta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("product_not_found")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     audit.ActionStockAdjusted,
		Entity:     "product",
		EntityID:   &p.ID,
		Metadata: map[string]any{
			"delta":  delta,
			"stock":  p.Stock,
			"reason": reason,
		},
	})
	return p, nil
}

type ImageResult struct {
	Product *models.Product `json:"product"`
	URL     string          `json:"url"`
}

// UploadImage converts the picture to WebP, stores it and links it to the product.
func (uc *Products) UploadImage(ctx context.Context, businessID, productID uint, r io.Reader) (*ImageResult, error) {
	if uc.store == nil {
		return nil, httperr.ErrBusiness("storage_unavailable")
	}

	p, err := uc.get(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}

	data, err := imaging.ToWebP(r, imaging.MaxSide)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		return nil, httperr.ErrBusiness("image_too_large")
	case errors.Is(err, imaging.ErrUnsupported):
		return nil, httperr.ErrBusiness("invalid_image")
	case err != nil:
		return nil, err
	}

	key := storage.Key("products", businessID, time.Now(), ".webp")
	if err := uc.store.Put(ctx, key, imaging.ContentType, data); err != nil {
		return nil, err
	}

	p.ImageKey = key
	if err := uc.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}

	url, err := uc.store.PresignGet(ctx, key)
	if err != nil {
		return nil, err
	}
	return &ImageResult{Product: p, URL: url}, nil
}

func (uc *Products) get(ctx context.Context, businessID, productID uint) (*models.Product, error) {
	p, err := uc.repo.GetProduct(ctx, businessID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("product_not_found")
		}
		return nil, err
	}
	return p, nil
}

func cleanBarcode(b *string) *string {
	if b == nil {
		return nil
	}
	v := strings.TrimSpace(*b)
	if v == "" {
		return nil
	}
	return &v
}
