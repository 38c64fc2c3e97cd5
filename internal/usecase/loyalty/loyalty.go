package loyalty

import (
	"context"
	"errors"

	"github.com/plushify/plushify-api/internal/audit"
	domain "github.com/plushify/plushify-api/internal/domain/loyalty"
	"github.com/plushify/plushify-api/internal/models"
)

const (
	ReasonAppointment = "appointment"
	ReasonRedeem      = "redeem"
)

type Program struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewProgram(repo domain.Repository, audit *audit.Dispatcher) *Program {
	return &Program{repo: repo, audit: audit}
}

// AwardForAppointment credits the points of a completed appointment once.
// A second award for the same appointment is a silent no-op.
func (p *Program) AwardForAppointment(ctx context.Context, ap *models.Appointment) error {
	points := domain.PointsFor(ap.Price)
	if points == 0 || ap.ClientID == 0 {
		return nil
	}

	acc, err := p.repo.GetOrCreateAccount(ctx, ap.BusinessID, ap.ClientID)
	if err != nil {
		return err
	}

	domain.Award(acc, points)

	apID := ap.ID
	err = p.repo.SaveMovement(ctx, acc, &models.LoyaltyEntry{
		Points:        points,
		Reason:        ReasonAppointment,
		AppointmentID: &apID,
	})
	if errors.Is(err, domain.ErrAlreadyAwarded) {
		return nil
	}
	return err
}

type Balance struct {
	Account      *models.LoyaltyAccount `json:"account"`
	NextLevel    string                 `json:"next_level,omitempty"`
	PointsToNext int                    `json:"points_to_next"`
	History      []models.LoyaltyEntry  `json:"history"`
}

func (p *Program) Balance(ctx context.Context, businessID, clientID uint) (*Balance, error) {
	acc, err := p.repo.GetOrCreateAccount(ctx, businessID, clientID)
	if err != nil {
		return nil, err
	}

	history, err := p.repo.ListEntries(ctx, acc.ID, 20)
	if err != nil {
		return nil, err
	}

	b := &Balance{Account: acc, History: history}
	if next, missing, ok := domain.NextLevel(acc.LifetimePoints); ok {
		b.NextLevel = string(next)
		b.PointsToNext = missing
	}
	return b, nil
}

func (p *Program) Redeem(ctx context.Context, businessID, userID, clientID uint, points int) (*models.LoyaltyAccount, error) {
	acc, err := p.repo.GetOrCreateAccount(ctx, businessID, clientID)
	if err != nil {
		return nil, err
	}

	if err := domain.Redeem(acc, points); err != nil {
		return nil, err
	}

	if err := p.repo.SaveMovement(ctx, acc, &models.LoyaltyEntry{
		Points: -points,
		Reason: ReasonRedeem,
	}); err != nil {
		return nil, err
	}

	p.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     audit.ActionLoyaltyRedeemed,
		Entity:     "client",
		EntityID:   &clientID,
		Metadata:   map[string]int{"points": points},
	})

	return acc, nil
}
