package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plushify/plushify-api/internal/infra/repository"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/testutil"
)

type sent struct{ to, body string }

type fakeNotifier struct {
	sent []sent
	fail map[string]bool
}

func (f *fakeNotifier) Send(_ context.Context, to, body string) error {
	if f.fail[to] {
		return errors.New("provider down")
	}
	f.sent = append(f.sent, sent{to, body})
	return nil
}

func TestSendReminders(t *testing.T) {
	db := testutil.NewDB(t,
		&models.Business{},
		&models.Client{},
		&models.Service{},
		&models.Appointment{},
		&models.Subscription{},
	)

	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	end := now.AddDate(0, 1, 0)

	require.NoError(t, db.Create(&models.Business{ID: 1, Name: "Studio Bela", Slug: "bela", Timezone: "UTC"}).Error)
	require.NoError(t, db.Create(&models.Business{ID: 2, Name: "Básico", Slug: "basico", Timezone: "UTC"}).Error)
	require.NoError(t, db.Create(&models.Subscription{BusinessID: 1, Tier: "enterprise", Status: "active", CurrentPeriodEnd: &end}).Error)
	require.NoError(t, db.Create(&models.Subscription{BusinessID: 2, Tier: "professional", Status: "active", CurrentPeriodEnd: &end}).Error)

	ana := models.Client{BusinessID: 1, Name: "Ana", Phone: "11999990000"}
	bia := models.Client{BusinessID: 1, Name: "Bia", Phone: "11988880000"}
	semFone := models.Client{BusinessID: 1, Name: "Caio"}
	outro := models.Client{BusinessID: 2, Name: "Davi", Phone: "11977770000"}
	for _, c := range []*models.Client{&ana, &bia, &semFone, &outro} {
		require.NoError(t, db.Create(c).Error)
	}
	svc := models.Service{BusinessID: 1, Name: "Escova", DurationMin: 30}
	require.NoError(t, db.Create(&svc).Error)

	tomorrow := time.Date(2026, 5, 11, 14, 30, 0, 0, time.UTC)
	apps := []models.Appointment{
		{BusinessID: 1, ClientID: ana.ID, ServiceID: svc.ID, StartTime: tomorrow, EndTime: tomorrow.Add(30 * time.Minute), Status: "agendado"},
		{BusinessID: 1, ClientID: bia.ID, ServiceID: svc.ID, StartTime: tomorrow.Add(time.Hour), EndTime: tomorrow.Add(90 * time.Minute), Status: "confirmado"},
		{BusinessID: 1, ClientID: semFone.ID, ServiceID: svc.ID, StartTime: tomorrow.Add(2 * time.Hour), EndTime: tomorrow.Add(150 * time.Minute), Status: "agendado"},
		{BusinessID: 1, ClientID: ana.ID, ServiceID: svc.ID, StartTime: tomorrow.Add(3 * time.Hour), EndTime: tomorrow.Add(210 * time.Minute), Status: "cancelado"},
		{BusinessID: 1, ClientID: ana.ID, ServiceID: svc.ID, StartTime: tomorrow.AddDate(0, 0, 1), EndTime: tomorrow.AddDate(0, 0, 1).Add(30 * time.Minute), Status: "agendado"},
		{BusinessID: 2, ClientID: outro.ID, ServiceID: svc.ID, StartTime: tomorrow, EndTime: tomorrow.Add(30 * time.Minute), Status: "agendado"},
	}
	require.NoError(t, db.Omit("Client", "Service").Create(&apps).Error)

	notifier := &fakeNotifier{fail: map[string]bool{"11988880000": true}}
	uc := NewSendReminders(
		repository.NewSubscriptionGormRepository(db),
		repository.NewAppointmentGormRepository(db),
		notifier,
		nil,
		zap.NewNop(),
	)
	uc.now = func() time.Time { return now }

	rep, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Report{Businesses: 1, Sent: 1, Skipped: 1, Failed: 1}, rep)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "11999990000", notifier.sent[0].to)
	assert.Equal(t, "Olá Ana! Lembrete: Escova amanhã (11/05) às 14:30 em Studio Bela. Caso precise remarcar, entre em contato.", notifier.sent[0].body)
}
