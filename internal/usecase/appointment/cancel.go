package appointment

import (
	"context"

	"github.com/plushify/plushify-api/internal/audit"
	domain "github.com/plushify/plushify-api/internal/domain/appointment"
	"github.com/plushify/plushify-api/internal/models"
)

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	businessID uint,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return transition(ctx, uc.repo, uc.audit, businessID, userID, appointmentID,
		"appointment_cancelled", domain.Cancel)
}
