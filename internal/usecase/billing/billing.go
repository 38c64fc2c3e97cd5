package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/plushify/plushify-api/internal/audit"
	domain "github.com/plushify/plushify-api/internal/domain/subscription"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/models"
)

// View is the subscription as the client sees it.
type View struct {
	Subscription  *models.Subscription `json:"subscription"`
	Usable        bool                 `json:"usable"`
	Features      []domain.Feature     `json:"features"`
	TrialDaysLeft int                  `json:"trial_days_left"`
}

type Billing struct {
	repo      domain.Repository
	gateway   domain.Gateway
	audit     *audit.Dispatcher
	log       *zap.Logger
	trialDays int
	backURL   string
	now       func() time.Time
}

// NewBilling: gateway may be nil when no processor is configured; checkout
// and cancel then fail with ErrGatewayUnavailable.
func NewBilling(repo domain.Repository, gateway domain.Gateway, audit *audit.Dispatcher, log *zap.Logger, trialDays int, backURL string) *Billing {
	return &Billing{
		repo:      repo,
		gateway:   gateway,
		audit:     audit,
		log:       log,
		trialDays: trialDays,
		backURL:   backURL,
		now:       time.Now,
	}
}

// EnsureTrial returns the subscription of the business, opening the trial
// on first use.
func (b *Billing) EnsureTrial(ctx context.Context, businessID uint) (*models.Subscription, error) {
	sub, err := b.repo.GetByBusiness(ctx, businessID)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	trial := domain.NewTrial(businessID, b.now(), b.trialDays)
	if err := b.repo.Create(ctx, &trial); err != nil {
		return nil, err
	}
	return &trial, nil
}

func (b *Billing) Get(ctx context.Context, businessID uint) (*View, error) {
	sub, err := b.EnsureTrial(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return b.view(sub), nil
}

func (b *Billing) view(sub *models.Subscription) *View {
	now := b.now()
	v := &View{Subscription: sub, Usable: domain.IsUsable(sub, now), Features: []domain.Feature{}}

	for _, f := range domain.AllFeatures {
		if domain.Allows(sub, f, now) {
			v.Features = append(v.Features, f)
		}
	}
	if left := sub.TrialEndsAt.Sub(now); left > 0 && domain.Status(sub.Status) != domain.StatusActive {
		v.TrialDaysLeft = int((left + 24*time.Hour - 1) / (24 * time.Hour))
	}
	return v
}

// Allows reports whether the business may use f right now. The second
// result is false when the subscription is not usable at all.
func (b *Billing) Allows(ctx context.Context, businessID uint, f domain.Feature) (allowed, usable bool, err error) {
	sub, err := b.EnsureTrial(ctx, businessID)
	if err != nil {
		return false, false, err
	}
	now := b.now()
	return domain.Allows(sub, f, now), domain.IsUsable(sub, now), nil
}

// ======================================================
// Checkout / webhook / cancelamento
// ======================================================

type CheckoutResult struct {
	InitPoint string `json:"init_point"`
	Tier      string `json:"tier"`
}

func (b *Billing) Checkout(ctx context.Context, businessID, userID uint, tier domain.Tier, payerEmail string) (*CheckoutResult, error) {
	plan, ok := domain.Plans[tier]
	if !ok {
		return nil, httperr.ErrBusiness("invalid_plan")
	}
	if b.gateway == nil {
		return nil, domain.ErrGatewayUnavailable
	}

	sub, err := b.EnsureTrial(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if domain.Status(sub.Status) == domain.StatusActive && sub.Tier == string(tier) {
		return nil, httperr.ErrBusiness("already_subscribed")
	}

	ref := uuid.NewString()
	pre, err := b.gateway.CreatePreapproval(ctx, domain.CheckoutRequest{
		Reason:      plan.Reason,
		ExternalRef: ref,
		PayerEmail:  payerEmail,
		Amount:      plan.Price,
		BackURL:     b.backURL,
	})
	if err != nil {
		return nil, err
	}

	sub.Tier = string(tier)
	sub.ExternalRef = ref
	sub.ExternalID = pre.ID
	if domain.Status(sub.Status) != domain.StatusActive {
		sub.Status = string(domain.StatusPending)
	}
	if err := b.repo.Save(ctx, sub); err != nil {
		return nil, err
	}

	b.record(businessID, &userID, sub, "checkout")
	return &CheckoutResult{InitPoint: pre.InitPoint, Tier: string(tier)}, nil
}

// Sync pulls the preapproval from the processor and mirrors its status.
// Unknown preapprovals are ignored.
func (b *Billing) Sync(ctx context.Context, preapprovalID string) error {
	if b.gateway == nil {
		return domain.ErrGatewayUnavailable
	}

	pre, err := b.gateway.GetPreapproval(ctx, preapprovalID)
	if err != nil {
		return err
	}

	sub, err := b.repo.GetByExternalID(ctx, pre.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) && pre.ExternalRef != "" {
		sub, err = b.repo.GetByExternalRef(ctx, pre.ExternalRef)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		b.log.Warn("preapproval sem assinatura", zap.String("preapproval_id", pre.ID))
		return nil
	}
	if err != nil {
		return err
	}

	status := domain.StatusFromProcessor(pre.Status)
	if string(status) == sub.Status {
		return nil
	}

	now := b.now()
	sub.Status = string(status)
	sub.ExternalID = pre.ID
	if status == domain.StatusActive {
		end := now.AddDate(0, 1, 0)
		sub.CurrentPeriodEnd = &end
	}
	if err := b.repo.Save(ctx, sub); err != nil {
		return err
	}

	b.record(sub.BusinessID, nil, sub, "sync")
	return nil
}

// Cancel stops renewals. Paid features stay until the current period ends.
func (b *Billing) Cancel(ctx context.Context, businessID, userID uint) (*View, error) {
	sub, err := b.repo.GetByBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("subscription_not_found")
		}
		return nil, err
	}
	if sub.ExternalID == "" || domain.Status(sub.Status) == domain.StatusCancelled {
		return nil, httperr.ErrBusiness("invalid_state")
	}
	if b.gateway == nil {
		return nil, domain.ErrGatewayUnavailable
	}

	if err := b.gateway.CancelPreapproval(ctx, sub.ExternalID); err != nil {
		return nil, err
	}

	if domain.Status(sub.Status) == domain.StatusPending {
		// checkout nunca pago: volta para o trial
		sub.Status = string(domain.StatusTrial)
		sub.Tier = string(domain.TierTrial)
		sub.ExternalID = ""
	} else {
		sub.Status = string(domain.StatusCancelled)
	}
	if err := b.repo.Save(ctx, sub); err != nil {
		return nil, err
	}

	b.record(businessID, &userID, sub, "cancel")
	return b.view(sub), nil
}

// ExpireTrials closes every trial whose window has passed.
func (b *Billing) ExpireTrials(ctx context.Context) (int64, error) {
	return b.repo.ExpireTrials(ctx, b.now())
}

func (b *Billing) record(businessID uint, userID *uint, sub *models.Subscription, op string) {
	b.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     userID,
		Action:     audit.ActionSubscription,
		Entity:     "subscription",
		EntityID:   &sub.ID,
		Metadata: map[string]any{
			"op":     op,
			"tier":   sub.Tier,
			"status": sub.Status,
		},
	})
}
