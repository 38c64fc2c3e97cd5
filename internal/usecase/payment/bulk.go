package payment

import (
	"context"
	"errors"

	"github.com/plushify/plushify-api/internal/audit"
	"github.com/plushify/plushify-api/internal/bulk"
	domain "github.com/plushify/plushify-api/internal/domain/payment"
	"github.com/plushify/plushify-api/internal/metrics"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/timezone"
)

type BulkPayments struct {
	repo        domain.Repository
	audit       *audit.Dispatcher
	metrics     *metrics.Metrics
	concurrency int
}

func NewBulkPayments(repo domain.Repository, audit *audit.Dispatcher, m *metrics.Metrics, concurrency int) *BulkPayments {
	return &BulkPayments{repo: repo, audit: audit, metrics: m, concurrency: concurrency}
}

func (uc *BulkPayments) Execute(ctx context.Context, businessID, userID uint, action bulk.Action, ids []uint) (bulk.Result, error) {
	ids = bulk.Normalize(ids)
	if len(ids) == 0 {
		return bulk.Result{}, bulk.ErrEmptySelection
	}
	if _, ok := bulk.PaymentRules[action]; !ok {
		return bulk.Result{}, bulk.ErrUnsupportedAction
	}

	payments, err := uc.repo.ListPaymentsByIDs(ctx, businessID, ids)
	if err != nil {
		return bulk.Result{}, err
	}

	byID := make(map[uint]models.Payment, len(payments))
	candidates := make([]bulk.Candidate, 0, len(payments))
	for _, p := range payments {
		byID[p.ID] = p
		candidates = append(candidates, bulk.Candidate{ID: p.ID, Status: p.Status})
	}

	if err := bulk.Validate(bulk.PaymentRules, action, ids, candidates, timezone.Now()); err != nil {
		var v *bulk.Violation
		if errors.As(err, &v) {
			uc.metrics.BulkRejected("payment", string(action), v.Rule)
		}
		return bulk.Result{}, err
	}

	res := bulk.Execute(ctx, action, ids, uc.concurrency, func(ctx context.Context, id uint) error {
		p := byID[id]
		switch action {
		case bulk.ActionDelete:
			return uc.repo.DeletePayment(ctx, businessID, id, &userID)
		case bulk.ActionCancel:
			p.Status = string(domain.StatusCancelled)
			if err := uc.repo.UpdatePaymentStatus(ctx, &p); err != nil {
				return err
			}
			uc.audit.Dispatch(audit.Event{
				BusinessID: businessID,
				UserID:     &userID,
				Action:     audit.ActionPaymentCancelled,
				Entity:     "payment",
				EntityID:   &id,
			})
			return nil
		default:
			return bulk.ErrUnsupportedAction
		}
	})

	uc.metrics.BulkProcessed("payment", string(action), res.Succeeded, len(res.Failed))
	return res, nil
}
