package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/middleware"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/timezone"
)

// Tenants resolves the business of the authenticated user.
type Tenants interface {
	GetBusinessByID(ctx context.Context, id uint) (*models.Business, error)
}

// --------------------------------------------------
// Timezone centralizado por estabelecimento
// --------------------------------------------------

func currentBusiness(c *gin.Context, tenants Tenants) (*models.Business, bool) {
	b, err := tenants.GetBusinessByID(c.Request.Context(), middleware.BusinessID(c))
	if err != nil {
		httperr.NotFound(c, "business_not_found", "Estabelecimento não encontrado.")
		return nil, false
	}
	return b, true
}

// businessLocation writes the error response itself when it returns false.
func businessLocation(c *gin.Context, tenants Tenants) (*time.Location, bool) {
	b, ok := currentBusiness(c, tenants)
	if !ok {
		return nil, false
	}
	return timezone.Location(b.Timezone), true
}
