package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plushify/plushify-api/internal/filter"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/timezone"
)

func code(t *testing.T, err error) string {
	t.Helper()
	c, ok := httperr.AsBusiness(err)
	require.True(t, ok, "expected business error, got %v", err)
	return c
}

func TestCreateAppointment(t *testing.T) {
	loc := timezone.Location("America/Sao_Paulo")
	day := time.Now().In(loc).AddDate(0, 0, 3).Format("2006-01-02")

	t.Run("uses service defaults", func(t *testing.T) {
		repo := newFakeRepo()
		repo.service.Price = decimal.NewFromInt(90)

		ap, err := NewCreateAppointment(repo, nil).Execute(context.Background(), CreateAppointmentInput{
			BusinessID: 1, ProfessionalID: 9, ClientName: "Ana", ClientPhone: "11",
			ServiceID: 1, Date: day, Time: "14:00",
		})

		require.NoError(t, err)
		assert.Equal(t, "agendado", ap.Status)
		assert.Equal(t, 45, ap.Duration)
		assert.Equal(t, 45*time.Minute, ap.EndTime.Sub(ap.StartTime))
		assert.True(t, ap.Price.Equal(decimal.NewFromInt(90)))
		assert.Equal(t, "Ana", ap.Client.Name)
		assert.Equal(t, 14, ap.StartTime.In(loc).Hour())
	})

	t.Run("overrides", func(t *testing.T) {
		repo := newFakeRepo()
		d := 90
		p := decimal.NewFromInt(150)

		ap, err := NewCreateAppointment(repo, nil).Execute(context.Background(), CreateAppointmentInput{
			BusinessID: 1, ProfessionalID: 9, ServiceID: 1, Date: day, Time: "09:30",
			DurationMin: &d, Price: &p,
		})

		require.NoError(t, err)
		assert.Equal(t, 90, ap.Duration)
		assert.True(t, ap.Price.Equal(p))
	})

	t.Run("errors", func(t *testing.T) {
		repo := newFakeRepo()
		uc := NewCreateAppointment(repo, nil)
		ctx := context.Background()

		_, err := uc.Execute(ctx, CreateAppointmentInput{BusinessID: 1, ServiceID: 1, Date: "10/03/2026", Time: "10:00"})
		assert.Equal(t, "invalid_date_or_time", code(t, err))

		_, err = uc.Execute(ctx, CreateAppointmentInput{BusinessID: 1, ServiceID: 1, Date: "2020-01-01", Time: "10:00"})
		assert.Equal(t, "past_time", code(t, err))

		_, err = uc.Execute(ctx, CreateAppointmentInput{BusinessID: 1, ServiceID: 2, Date: day, Time: "10:00"})
		assert.Equal(t, "service_not_found", code(t, err))

		repo.conflictErr = httperr.ErrBusiness("time_conflict")
		_, err = uc.Execute(ctx, CreateAppointmentInput{BusinessID: 1, ServiceID: 1, Date: day, Time: "10:00"})
		assert.Equal(t, "time_conflict", code(t, err))
		assert.Empty(t, repo.created)
	})
}

func TestSingleTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm", func(t *testing.T) {
		repo := newFakeRepo(appt(1, "agendado", time.Now().Add(time.Hour)))
		ap, err := NewConfirmAppointment(repo, nil).Execute(ctx, 1, 9, 1)
		require.NoError(t, err)
		assert.Equal(t, "confirmado", ap.Status)
		assert.Len(t, repo.updates, 1)
	})

	t.Run("cancel too late", func(t *testing.T) {
		repo := newFakeRepo(appt(1, "agendado", time.Now().Add(23*time.Hour)))
		_, err := NewCancelAppointment(repo, nil).Execute(ctx, 1, 9, 1)
		assert.Equal(t, "cancel_too_late", code(t, err))
		assert.Empty(t, repo.updates)
	})

	t.Run("complete awards points", func(t *testing.T) {
		repo := newFakeRepo(appt(1, "confirmado", time.Now().Add(-time.Hour)))
		awarder := &fakeAwarder{}
		ap, err := NewCompleteAppointment(repo, nil, awarder, zap.NewNop()).Execute(ctx, 1, 9, 1)
		require.NoError(t, err)
		assert.Equal(t, "concluido", ap.Status)
		assert.Equal(t, []uint{1}, awarder.awarded)
	})

	t.Run("complete from agendado", func(t *testing.T) {
		repo := newFakeRepo(appt(1, "agendado", time.Now()))
		_, err := NewCompleteAppointment(repo, nil, nil, zap.NewNop()).Execute(ctx, 1, 9, 1)
		assert.Equal(t, "invalid_state", code(t, err))
	})

	t.Run("not found", func(t *testing.T) {
		repo := newFakeRepo()
		_, err := NewConfirmAppointment(repo, nil).Execute(ctx, 1, 9, 42)
		assert.Equal(t, "appointment_not_found", code(t, err))
	})
}

func TestListAppointments(t *testing.T) {
	loc := timezone.Location("America/Sao_Paulo")
	now := time.Now().In(loc)
	first := time.Date(now.Year(), now.Month(), 1, 10, 0, 0, 0, loc)

	a := appt(1, "agendado", first)
	b := appt(2, "cancelado", first.Add(24*time.Hour))
	repo := newFakeRepo(a, b)
	uc := NewListAppointments(repo)

	t.Run("no options returns the month", func(t *testing.T) {
		list, err := uc.Execute(context.Background(), 1, filter.Options{})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("status filter", func(t *testing.T) {
		list, err := uc.Execute(context.Background(), 1, filter.Options{Statuses: []string{"Cancelado"}})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, uint(2), list[0].ID)
	})
}
