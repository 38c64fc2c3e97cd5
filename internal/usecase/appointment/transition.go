package appointment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/plushify/plushify-api/internal/audit"
	domain "github.com/plushify/plushify-api/internal/domain/appointment"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/timezone"
)

// PointsAwarder credits loyalty points for a completed appointment.
type PointsAwarder interface {
	AwardForAppointment(ctx context.Context, ap *models.Appointment) error
}

type transitionFunc func(ap *models.Appointment, now time.Time) error

// transition loads one appointment, applies fn and persists the new status.
func transition(
	ctx context.Context,
	repo domain.Repository,
	dispatcher *audit.Dispatcher,
	businessID uint,
	userID uint,
	appointmentID uint,
	action string,
	fn transitionFunc,
) (*models.Appointment, error) {

	business, err := repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	ap, err := repo.GetAppointment(ctx, businessID, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}

	now := timezone.NowIn(business.Timezone)
	if err := fn(ap, now); err != nil {
		return nil, err
	}

	if err := repo.UpdateAppointmentStatus(ctx, ap); err != nil {
		return nil, err
	}

	dispatcher.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     action,
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}

// awardPoints never fails the transition: the status change already landed.
func awardPoints(ctx context.Context, awarder PointsAwarder, log *zap.Logger, ap *models.Appointment) {
	if awarder == nil {
		return
	}
	if err := awarder.AwardForAppointment(ctx, ap); err != nil {
		log.Warn("loyalty award failed",
			zap.Uint("appointment_id", ap.ID),
			zap.Error(err),
		)
	}
}
