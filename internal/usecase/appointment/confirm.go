package appointment

import (
	"context"

	"github.com/plushify/plushify-api/internal/audit"
	domain "github.com/plushify/plushify-api/internal/domain/appointment"
	"github.com/plushify/plushify-api/internal/models"
)

type ConfirmAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewConfirmAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	businessID uint,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return transition(ctx, uc.repo, uc.audit, businessID, userID, appointmentID,
		"appointment_confirmed", domain.Confirm)
}
