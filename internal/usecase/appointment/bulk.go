package appointment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/plushify/plushify-api/internal/audit"
	"github.com/plushify/plushify-api/internal/bulk"
	domain "github.com/plushify/plushify-api/internal/domain/appointment"
	"github.com/plushify/plushify-api/internal/metrics"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/timezone"
)

// BulkAppointments validates the whole selection first and only then fans
// out one write per appointment.
type BulkAppointments struct {
	repo        domain.Repository
	audit       *audit.Dispatcher
	loyalty     PointsAwarder
	metrics     *metrics.Metrics
	log         *zap.Logger
	concurrency int
}

func NewBulkAppointments(
	repo domain.Repository,
	audit *audit.Dispatcher,
	loyalty PointsAwarder,
	m *metrics.Metrics,
	log *zap.Logger,
	concurrency int,
) *BulkAppointments {
	return &BulkAppointments{
		repo:        repo,
		audit:       audit,
		loyalty:     loyalty,
		metrics:     m,
		log:         log,
		concurrency: concurrency,
	}
}

func (uc *BulkAppointments) Execute(
	ctx context.Context,
	businessID uint,
	userID uint,
	action bulk.Action,
	ids []uint,
) (bulk.Result, error) {

	ids = bulk.Normalize(ids)
	if len(ids) == 0 {
		return bulk.Result{}, bulk.ErrEmptySelection
	}
	if _, ok := bulk.AppointmentRules[action]; !ok {
		return bulk.Result{}, bulk.ErrUnsupportedAction
	}

	business, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return bulk.Result{}, err
	}

	// --------------------------------------------------
	// Validação (nenhuma escrita antes de passar)
	// --------------------------------------------------
	apps, err := uc.repo.ListAppointmentsByIDs(ctx, businessID, ids)
	if err != nil {
		return bulk.Result{}, err
	}

	byID := make(map[uint]models.Appointment, len(apps))
	candidates := make([]bulk.Candidate, 0, len(apps))
	for _, ap := range apps {
		byID[ap.ID] = ap
		candidates = append(candidates, bulk.Candidate{
			ID:          ap.ID,
			Status:      ap.Status,
			ScheduledAt: ap.StartTime,
		})
	}

	now := timezone.NowIn(business.Timezone)
	if err := bulk.Validate(bulk.AppointmentRules, action, ids, candidates, now); err != nil {
		var v *bulk.Violation
		if errors.As(err, &v) {
			uc.metrics.BulkRejected("appointment", string(action), v.Rule)
		}
		return bulk.Result{}, err
	}

	// --------------------------------------------------
	// Execução concorrente, sem rollback
	// --------------------------------------------------
	res := bulk.Execute(ctx, action, ids, uc.concurrency, func(ctx context.Context, id uint) error {
		ap := byID[id]
		return uc.apply(ctx, action, &ap, now)
	})

	uc.metrics.BulkProcessed("appointment", string(action), res.Succeeded, len(res.Failed))

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     audit.ActionBulk,
		Entity:     "appointment",
		Metadata:   res,
	})

	return res, nil
}

func (uc *BulkAppointments) apply(ctx context.Context, action bulk.Action, ap *models.Appointment, now time.Time) error {
	switch action {
	case bulk.ActionDelete:
		return uc.repo.DeleteAppointment(ctx, ap.BusinessID, ap.ID)
	case bulk.ActionConfirm:
		if err := domain.Confirm(ap, now); err != nil {
			return err
		}
	case bulk.ActionCancel:
		if err := domain.Cancel(ap, now); err != nil {
			return err
		}
	case bulk.ActionComplete:
		if err := domain.Complete(ap, now); err != nil {
			return err
		}
	default:
		return bulk.ErrUnsupportedAction
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap); err != nil {
		return err
	}

	if action == bulk.ActionComplete {
		awardPoints(ctx, uc.loyalty, uc.log, ap)
	}
	return nil
}
