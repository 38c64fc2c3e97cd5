package finance

import (
	"context"
	"time"

	"github.com/plushify/plushify-api/internal/audit"
	domain "github.com/plushify/plushify-api/internal/domain/finance"
	domainpay "github.com/plushify/plushify-api/internal/domain/payment"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/models"
)

type CloseDayInput struct {
	BusinessID uint
	UserID     uint
	Date       string // YYYY-MM-DD; vazio = hoje
	Notes      string
}

type CashClosures struct {
	repo     domain.Repository
	payments domainpay.Repository
	audit    *audit.Dispatcher
}

func NewCashClosures(repo domain.Repository, payments domainpay.Repository, audit *audit.Dispatcher) *CashClosures {
	return &CashClosures{repo: repo, payments: payments, audit: audit}
}

// Close fecha o caixa do dia: soma as parcelas pagas naquele dia.
// Só existe um fechamento por dia.
func (uc *CashClosures) Close(ctx context.Context, in CloseDayInput, loc *time.Location) (*models.CashClosure, error) {
	day := domain.ClosureDay(time.Now().In(loc))
	if in.Date != "" {
		d, err := time.ParseInLocation("2006-01-02", in.Date, loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		day = d
	}
	if day.After(time.Now().In(loc)) {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	paid, err := uc.payments.ListInstallmentsPaidBetween(ctx, in.BusinessID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	c := &models.CashClosure{
		BusinessID:  in.BusinessID,
		ClosureDate: day,
		TotalIncome: domain.ClosureIncome(paid),
		Notes:       in.Notes,
		ClosedBy:    in.UserID,
	}
	if err := uc.repo.CreateCashClosure(ctx, c); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     &in.UserID,
		Action:     audit.ActionCashClosed,
		Entity:     "cash_closure",
		EntityID:   &c.ID,
		Metadata: map[string]any{
			"date":         day.Format("2006-01-02"),
			"total_income": c.TotalIncome.StringFixed(2),
			"installments": len(paid),
		},
	})
	return c, nil
}

func (uc *CashClosures) List(ctx context.Context, businessID uint, start, end time.Time) ([]models.CashClosure, error) {
	return uc.repo.ListCashClosures(ctx, businessID, start, end)
}
