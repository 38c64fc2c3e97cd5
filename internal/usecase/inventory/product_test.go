package inventory

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plushify/plushify-api/internal/filter"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/infra/repository"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/testutil"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memStore) Put(_ context.Context, key, _ string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = body
	return nil
}

func (m *memStore) PresignGet(_ context.Context, key string) (string, error) {
	return "https://cdn.test/" + key, nil
}

func newProducts(t *testing.T, store *memStore) *Products {
	db := testutil.NewDB(t, &models.Product{}, &models.AuditLog{})
	if store == nil {
		return NewProducts(repository.NewProductGormRepository(db), nil, nil)
	}
	return NewProducts(repository.NewProductGormRepository(db), store, nil)
}

func TestProducts(t *testing.T) {
	uc := newProducts(t, nil)
	ctx := context.Background()

	shampoo, err := uc.Create(ctx, 1, ProductInput{Name: "Shampoo", Category: "Cabelo", Stock: 10, MinStock: 3, Price: decimal.RequireFromString("39.9")})
	require.NoError(t, err)
	_, err = uc.Create(ctx, 1, ProductInput{Name: "Esmalte", Category: "Unhas", Stock: 2, MinStock: 5, Price: decimal.RequireFromString("12")})
	require.NoError(t, err)

	t.Run("validation", func(t *testing.T) {
		_, err := uc.Create(ctx, 1, ProductInput{Name: " "})
		assert.True(t, httperr.IsBusiness(err, "invalid_name"))
		_, err = uc.Create(ctx, 1, ProductInput{Name: "X", Stock: -1})
		assert.True(t, httperr.IsBusiness(err, "invalid_quantity"))
	})

	t.Run("low stock", func(t *testing.T) {
		list, err := uc.List(ctx, 1, filter.Options{}, true)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Esmalte", list[0].Name)
	})

	t.Run("stock never goes negative", func(t *testing.T) {
		p, err := uc.AdjustStock(ctx, 1, 9, shampoo.ID, -4, "venda")
		require.NoError(t, err)
		assert.Equal(t, 6, p.Stock)

		_, err = uc.AdjustStock(ctx, 1, 9, shampoo.ID, -7, "venda")
		assert.True(t, httperr.IsBusiness(err, "insufficient_stock"))

		_, err = uc.AdjustStock(ctx, 2, 9, shampoo.ID, 1, "outro salão")
		assert.True(t, httperr.IsBusiness(err, "product_not_found"))
	})

	t.Run("update keeps stock", func(t *testing.T) {
		p, err := uc.Update(ctx, 1, shampoo.ID, ProductInput{Name: "Shampoo 500ml", Category: "Cabelo", Stock: 999, MinStock: 2, Price: decimal.NewFromInt(45)})
		require.NoError(t, err)
		assert.Equal(t, 6, p.Stock)
		assert.Equal(t, "Shampoo 500ml", p.Name)
	})
}

func TestUploadImage(t *testing.T) {
	store := &memStore{}
	uc := newProducts(t, store)
	ctx := context.Background()

	p, err := uc.Create(ctx, 1, ProductInput{Name: "Creme", Price: decimal.NewFromInt(20)})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 20))))

	res, err := uc.UploadImage(ctx, 1, p.ID, &buf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Product.ImageKey, "products/1/"))
	assert.True(t, strings.HasSuffix(res.Product.ImageKey, ".webp"))
	assert.Equal(t, "https://cdn.test/"+res.Product.ImageKey, res.URL)
	assert.Contains(t, store.objects, res.Product.ImageKey)

	_, err = uc.UploadImage(ctx, 1, p.ID, strings.NewReader("texto"))
	assert.True(t, httperr.IsBusiness(err, "invalid_image"))

	_, err = newProducts(t, nil).UploadImage(ctx, 1, p.ID, strings.NewReader("x"))
	assert.True(t, httperr.IsBusiness(err, "storage_unavailable"))
}
