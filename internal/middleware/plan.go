package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/plushify/plushify-api/internal/domain/subscription"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/logger"
)

type FeatureChecker interface {
	Allows(ctx context.Context, businessID uint, f domain.Feature) (allowed, usable bool, err error)
}

// RequireFeature blocks the route unless the plan of the business includes f.
// An unusable subscription (trial over, no payment) answers 402.
func RequireFeature(checker FeatureChecker, f domain.Feature) gin.HandlerFunc {
	return RequireFeatureFunc(checker, func(*gin.Context) domain.Feature { return f })
}

// RequireFeatureFunc picks the feature per request (e.g. by export format).
// An empty feature only requires a usable subscription.
func RequireFeatureFunc(checker FeatureChecker, pick func(*gin.Context) domain.Feature) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := pick(c)
		if f == "" {
			f = domain.FeatureAppointments
		}

		allowed, usable, err := checker.Allows(c.Request.Context(), BusinessID(c), f)
		if err != nil {
			logger.FromGin(c).Error("falha ao consultar assinatura", zap.Error(err))
			httperr.Internal(c, "subscription_check_failed", "Não foi possível verificar sua assinatura.")
			return
		}
		if !usable {
			httperr.PaymentRequired(c, "subscription_required", "Seu período de teste terminou. Assine um plano para continuar.")
			return
		}
		if !allowed {
			httperr.Forbidden(c, "plan_upgrade_required", "Este recurso não está incluído no seu plano.")
			return
		}

		c.Next()
	}
}
