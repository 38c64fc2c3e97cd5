package reminder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domainsub "github.com/plushify/plushify-api/internal/domain/subscription"
	"github.com/plushify/plushify-api/internal/infra/notify"
	"github.com/plushify/plushify-api/internal/metrics"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/timezone"
)

type Source interface {
	GetBusinessByID(ctx context.Context, businessID uint) (*models.Business, error)
	ListOpenAppointmentsBetween(ctx context.Context, businessIDs []uint, start, end time.Time) ([]models.Appointment, error)
}

type Report struct {
	Businesses int `json:"businesses"`
	Sent       int `json:"sent"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

type SendReminders struct {
	subs     domainsub.Repository
	source   Source
	notifier notify.Notifier
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
}

func NewSendReminders(subs domainsub.Repository, source Source, notifier notify.Notifier, m *metrics.Metrics, log *zap.Logger) *SendReminders {
	return &SendReminders{
		subs:     subs,
		source:   source,
		notifier: notifier,
		metrics:  m,
		log:      log.Named("reminder"),
		now:      time.Now,
	}
}

// Execute avisa os clientes dos horários de amanhã (agendado/confirmado)
// dos negócios cujo plano inclui lembretes. Falhas de envio não interrompem
// o lote e não são reenviadas.
func (uc *SendReminders) Execute(ctx context.Context) (Report, error) {
	var rep Report

	ids, err := uc.subs.BusinessIDsWithFeature(ctx, domainsub.FeatureReminders, uc.now())
	if err != nil {
		return rep, err
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return rep, ctx.Err()
		}

		business, err := uc.source.GetBusinessByID(ctx, id)
		if err != nil {
			uc.log.Warn("negócio não encontrado", zap.Uint("business_id", id), zap.Error(err))
			continue
		}
		rep.Businesses++

		loc := timezone.Location(business.Timezone)
		start := timezone.StartOfDay(uc.now().In(loc)).AddDate(0, 0, 1)

		apps, err := uc.source.ListOpenAppointmentsBetween(ctx, []uint{id}, start, start.AddDate(0, 0, 1))
		if err != nil {
			return rep, err
		}

		for _, ap := range apps {
			if ap.Client.Phone == "" {
				rep.Skipped++
				continue
			}
			if err := uc.notifier.Send(ctx, ap.Client.Phone, Message(business, ap, loc)); err != nil {
				rep.Failed++
				uc.metrics.ExternalError("twilio")
				uc.log.Warn("falha ao enviar lembrete",
					zap.Uint("appointment_id", ap.ID),
					zap.Error(err),
				)
				continue
			}
			rep.Sent++
			uc.metrics.ReminderSent()
		}
	}

	uc.log.Info("lembretes processados",
		zap.Int("businesses", rep.Businesses),
		zap.Int("sent", rep.Sent),
		zap.Int("skipped", rep.Skipped),
		zap.Int("failed", rep.Failed),
	)
	return rep, nil
}

func Message(b *models.Business, ap models.Appointment, loc *time.Location) string {
	start := ap.StartTime.In(loc)
	return fmt.Sprintf(
		"Olá %s! Lembrete: %s amanhã (%s) às %s em %s. Caso precise remarcar, entre em contato.",
		ap.Client.Name,
		ap.Service.Name,
		start.Format("02/01"),
		start.Format("15:04"),
		b.Name,
	)
}
