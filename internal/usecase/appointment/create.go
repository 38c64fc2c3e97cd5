package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/plushify/plushify-api/internal/audit"
	domain "github.com/plushify/plushify-api/internal/domain/appointment"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BusinessID     uint
	ProfessionalID uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	ServiceID uint

	Date  string
	Time  string
	Notes string

	// opcionais: sobrescrevem os valores do serviço
	DurationMin *int
	Price       *decimal.Decimal
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Estabelecimento
	// --------------------------------------------------
	business, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Data / hora no timezone do estabelecimento
	// --------------------------------------------------
	start, err := timezone.ParseDateTime(in.Date, in.Time, business.Timezone)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	now := timezone.NowIn(business.Timezone)
	if !start.After(now) {
		return nil, httperr.ErrBusiness("past_time")
	}

	// --------------------------------------------------
	// 3️⃣ Serviço
	// --------------------------------------------------
	service, err := uc.repo.GetService(ctx, in.BusinessID, in.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}

	duration := service.DurationMin
	if in.DurationMin != nil {
		duration = *in.DurationMin
	}
	if duration <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	price := service.Price
	if in.Price != nil {
		price = *in.Price
	}
	if price.IsNegative() {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	end := start.Add(time.Duration(duration) * time.Minute)

	// --------------------------------------------------
	// 4️⃣ Cliente (get or create)
	// --------------------------------------------------
	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.BusinessID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Conflito de horário
	// --------------------------------------------------
	if err := uc.repo.AssertNoTimeConflict(
		ctx,
		in.ProfessionalID,
		start,
		end,
	); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Criação do agendamento (status centralizado)
	// --------------------------------------------------
	ap := &models.Appointment{
		BusinessID:     in.BusinessID,
		ProfessionalID: in.ProfessionalID,
		ClientID:       client.ID,
		ServiceID:      service.ID,
		StartTime:      start,
		EndTime:        end,
		Duration:       duration,
		Price:          price,
		Status:         string(domain.InitialStatus()),
		Notes:          in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrBusiness("time_conflict")
		}
		return nil, err
	}

	ap.Client = *client
	ap.Service = *service

	// --------------------------------------------------
	// 7️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     &in.ProfessionalID,
		Action:     "appointment_created",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
