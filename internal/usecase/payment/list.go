package payment

import (
	"context"
	"sort"
	"time"

	domain "github.com/plushify/plushify-api/internal/domain/payment"
	"github.com/plushify/plushify-api/internal/filter"
	"github.com/plushify/plushify-api/internal/models"
)

type ListPayments struct {
	repo domain.Repository
}

func NewListPayments(repo domain.Repository) *ListPayments {
	return &ListPayments{repo: repo}
}

// Execute lists payments created in [start, end). includeDeleted adds the
// synthetic "excluido" rows of payments deleted in the same window.
func (uc *ListPayments) Execute(
	ctx context.Context,
	businessID uint,
	start, end time.Time,
	opts filter.Options,
	includeDeleted bool,
) ([]models.Payment, error) {

	payments, err := uc.repo.ListPaymentsForPeriod(ctx, businessID, start, end)
	if err != nil {
		return nil, err
	}

	if includeDeleted {
		deleted, err := uc.repo.ListDeletedPayments(ctx, businessID, start, end)
		if err != nil {
			return nil, err
		}
		payments = append(payments, deleted...)
		sort.SliceStable(payments, func(i, j int) bool {
			return payments[i].CreatedAt.After(payments[j].CreatedAt)
		})
	}

	loc := start.Location()
	for i := range payments {
		payments[i].CreatedAt = payments[i].CreatedAt.In(loc)
	}

	return filter.Apply(payments, opts), nil
}
