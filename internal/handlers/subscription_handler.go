package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domainsub "github.com/plushify/plushify-api/internal/domain/subscription"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/httpresp"
	"github.com/plushify/plushify-api/internal/logger"
	"github.com/plushify/plushify-api/internal/middleware"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/usecase/billing"
	"github.com/plushify/plushify-api/internal/validators"
)

type SubscriptionHandler struct {
	db      *gorm.DB
	billing *billing.Billing
}

func NewSubscriptionHandler(db *gorm.DB, b *billing.Billing) *SubscriptionHandler {
	return &SubscriptionHandler{db: db, billing: b}
}

type CheckoutRequest struct {
	Tier       string `json:"tier" binding:"required"`
	PayerEmail string `json:"payer_email"`
}

// webhookNotification is the body MercadoPago posts. Older integrations
// send only ?topic=&id= in the query string.
type webhookNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	view, err := h.billing.Get(c.Request.Context(), middleware.BusinessID(c))
	if err != nil {
		respondError(c, err, "failed_to_load_subscription")
		return
	}
	httpresp.OK(c, view)
}

func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.PayerEmail))
	if email == "" {
		var user models.User
		if err := h.db.WithContext(c.Request.Context()).First(&user, middleware.UserID(c)).Error; err != nil {
			respondError(c, err, "user_not_found")
			return
		}
		email = user.Email
	}
	if !validators.IsEmailSyntaxValid(email) {
		httperr.BadRequest(c, "invalid_email", "E-mail inválido.")
		return
	}

	res, err := h.billing.Checkout(
		c.Request.Context(),
		middleware.BusinessID(c),
		middleware.UserID(c),
		domainsub.Tier(strings.ToLower(req.Tier)),
		email,
	)
	if err != nil {
		respondError(c, err, "checkout_failed")
		return
	}

	httpresp.Created(c, res)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	view, err := h.billing.Cancel(c.Request.Context(), middleware.BusinessID(c), middleware.UserID(c))
	if err != nil {
		respondError(c, err, "cancel_failed")
		return
	}
	httpresp.OK(c, view)
}

// Webhook answers 200 for notifications it does not care about so the
// processor stops resending them.
func (h *SubscriptionHandler) Webhook(c *gin.Context) {
	var n webhookNotification
	_ = c.ShouldBindJSON(&n)

	kind := n.Type
	if kind == "" {
		kind = c.Query("topic")
	}
	if kind == "" {
		kind = c.Query("type")
	}
	id := n.Data.ID
	if id == "" {
		id = c.Query("id")
	}
	if id == "" {
		id = c.Query("data.id")
	}

	if !strings.Contains(kind, "preapproval") || id == "" {
		logger.FromGin(c).Debug("webhook ignorado", zap.String("type", kind))
		httpresp.OK(c, gin.H{"status": "ignored"})
		return
	}

	if err := h.billing.Sync(c.Request.Context(), id); err != nil {
		respondError(c, err, "webhook_failed")
		return
	}

	httpresp.OK(c, gin.H{"status": "ok"})
}
