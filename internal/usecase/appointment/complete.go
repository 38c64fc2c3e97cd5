package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/plushify/plushify-api/internal/audit"
	domain "github.com/plushify/plushify-api/internal/domain/appointment"
	"github.com/plushify/plushify-api/internal/models"
)

type CompleteAppointment struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	loyalty PointsAwarder
	log     *zap.Logger
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	loyalty PointsAwarder,
	log *zap.Logger,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:    repo,
		audit:   audit,
		loyalty: loyalty,
		log:     log,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	businessID uint,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := transition(ctx, uc.repo, uc.audit, businessID, userID, appointmentID,
		"appointment_completed", domain.Complete)
	if err != nil {
		return nil, err
	}

	awardPoints(ctx, uc.loyalty, uc.log, ap)
	return ap, nil
}
