package appointment

import (
	"context"

	domain "github.com/plushify/plushify-api/internal/domain/appointment"
	"github.com/plushify/plushify-api/internal/filter"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/timezone"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(
	repo domain.Repository,
) *ListAppointments {
	return &ListAppointments{
		repo: repo,
	}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	businessID uint,
	opts filter.Options,
) ([]models.Appointment, error) {

	business, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(business.Timezone)
	start, end := filter.Window(opts, loc, timezone.NowIn(business.Timezone))

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		businessID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	// datas no fuso do estabelecimento antes de filtrar por dia
	for i := range appointments {
		appointments[i].StartTime = appointments[i].StartTime.In(loc)
		appointments[i].EndTime = appointments[i].EndTime.In(loc)
	}

	return filter.Apply(appointments, opts), nil
}
