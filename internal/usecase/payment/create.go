package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plushify/plushify-api/internal/audit"
	domain "github.com/plushify/plushify-api/internal/domain/payment"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/timezone"
)

type CreatePaymentInput struct {
	BusinessID uint
	UserID     uint

	ClientID        *uint
	PaymentMethodID *uint
	AppointmentID   *uint

	Description  string
	Amount       decimal.Decimal
	Installments int
	// FirstDueDate (YYYY-MM-DD); vazio = hoje
	FirstDueDate string
	// PayFirst quita a primeira parcela no ato
	PayFirst bool
	// Timezone do estabelecimento; vazio = padrão do use case
	Timezone string
}

type CreatePayment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	tz    string
}

func NewCreatePayment(repo domain.Repository, audit *audit.Dispatcher, tz string) *CreatePayment {
	return &CreatePayment{repo: repo, audit: audit, tz: tz}
}

func (uc *CreatePayment) Execute(ctx context.Context, in CreatePaymentInput) (*models.Payment, error) {
	tz := uc.tz
	if in.Timezone != "" {
		tz = in.Timezone
	}
	now := timezone.NowIn(tz)

	firstDue := timezone.StartOfDay(now)
	if in.FirstDueDate != "" {
		d, err := timezone.ParseDate(in.FirstDueDate, tz)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		firstDue = d
	}

	n := in.Installments
	if n == 0 {
		n = 1
	}

	installments, err := domain.PlanInstallments(in.Amount, n, firstDue)
	if err != nil {
		return nil, err
	}

	p := &models.Payment{
		BusinessID:      in.BusinessID,
		ClientID:        in.ClientID,
		PaymentMethodID: in.PaymentMethodID,
		AppointmentID:   in.AppointmentID,
		Description:     in.Description,
		Amount:          in.Amount,
		PaidAmount:      decimal.Zero,
		Status:          string(domain.StatusPending),
		Installments:    installments,
	}

	if in.PayFirst {
		if err := domain.PayInstallment(p, &p.Installments[0], now); err != nil {
			return nil, err
		}
	}

	if err := uc.repo.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     &in.UserID,
		Action:     "payment_created",
		Entity:     "payment",
		EntityID:   &p.ID,
		Metadata: map[string]any{
			"amount":       p.Amount.StringFixed(2),
			"installments": n,
		},
	})

	return p, nil
}

// ======================================================
// Pagamento de parcela
// ======================================================

type PayInstallment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	tz    string
}

func NewPayInstallment(repo domain.Repository, audit *audit.Dispatcher, tz string) *PayInstallment {
	return &PayInstallment{repo: repo, audit: audit, tz: tz}
}

func (uc *PayInstallment) Execute(ctx context.Context, businessID, userID, installmentID uint) (*models.Payment, error) {
	inst, p, err := uc.repo.GetInstallment(ctx, businessID, installmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("installment_not_found")
	}

	if err := domain.PayInstallment(p, inst, time.Now().In(timezone.Location(uc.tz))); err != nil {
		return nil, err
	}

	if err := uc.repo.SaveInstallmentPayment(ctx, p, inst); err != nil {
		return nil, err
	}

	for i := range p.Installments {
		if p.Installments[i].ID == inst.ID {
			p.Installments[i] = *inst
		}
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     "installment_paid",
		Entity:     "installment",
		EntityID:   &inst.ID,
	})

	return p, nil
}
