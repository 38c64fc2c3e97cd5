package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plushify/plushify-api/internal/dto"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/httpresp"
	"github.com/plushify/plushify-api/internal/middleware"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/usecase/billing"
)

type MeHandler struct {
	db      *gorm.DB
	billing *billing.Billing
}

func NewMeHandler(db *gorm.DB, b *billing.Billing) *MeHandler {
	return &MeHandler{db: db, billing: b}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Business").
		First(&user, middleware.UserID(c)).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
		return
	}

	sub, err := h.billing.Get(c.Request.Context(), user.BusinessID)
	if err != nil {
		respondError(c, err, "failed_to_load_subscription")
		return
	}

	httpresp.OK(c, gin.H{
		"user":         dto.User(&user),
		"business":     dto.Business(&user.Business),
		"subscription": sub,
	})
}
