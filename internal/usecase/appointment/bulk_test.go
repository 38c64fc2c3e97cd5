package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plushify/plushify-api/internal/bulk"
	"github.com/plushify/plushify-api/internal/metrics"
	"github.com/plushify/plushify-api/internal/models"
)

func newBulk(repo *fakeRepo, awarder PointsAwarder) *BulkAppointments {
	return NewBulkAppointments(repo, nil, awarder, metrics.New(), zap.NewNop(), 4)
}

func appt(id uint, status string, start time.Time) models.Appointment {
	return models.Appointment{ID: id, BusinessID: 1, Status: status, StartTime: start, EndTime: start.Add(time.Hour)}
}

func TestBulkConfirmScheduledTomorrow(t *testing.T) {
	tomorrow := time.Now().Add(24 * time.Hour)
	repo := newFakeRepo(appt(1, "agendado", tomorrow))

	res, err := newBulk(repo, nil).Execute(context.Background(), 1, 9, bulk.ActionConfirm, []uint{1})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Requested)
	assert.Equal(t, 1, res.Succeeded)
	assert.Empty(t, res.Failed)

	require.Len(t, repo.updates, 1)
	assert.Equal(t, uint(1), repo.updates[0].ID)
	assert.Equal(t, "confirmado", repo.updates[0].Status)
	assert.NotNil(t, repo.updates[0].ConfirmedAt)
}

func TestBulkCancelWithinNoticeIsRejectedBeforeAnyWrite(t *testing.T) {
	repo := newFakeRepo(
		appt(1, "agendado", time.Now().Add(72*time.Hour)),
		appt(2, "confirmado", time.Now().Add(3*time.Hour)),
	)

	_, err := newBulk(repo, nil).Execute(context.Background(), 1, 9, bulk.ActionCancel, []uint{1, 2})

	var v *bulk.Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, uint(2), v.RecordID)
	assert.Equal(t, "cancel_too_late", v.Rule)
	assert.Zero(t, repo.calls())
}

func TestBulkDeleteConfirmedOrCompletedIsRejectedBeforeAnyWrite(t *testing.T) {
	for _, status := range []string{"confirmado", "concluido"} {
		t.Run(status, func(t *testing.T) {
			repo := newFakeRepo(
				appt(1, "agendado", time.Now().Add(48*time.Hour)),
				appt(2, status, time.Now().Add(48*time.Hour)),
			)

			_, err := newBulk(repo, nil).Execute(context.Background(), 1, 9, bulk.ActionDelete, []uint{1, 2})

			var v *bulk.Violation
			require.ErrorAs(t, err, &v)
			assert.Equal(t, uint(2), v.RecordID)
			assert.Equal(t, "delete_forbidden", v.Rule)
			assert.Zero(t, repo.calls())
		})
	}
}

func TestBulkMissingRecord(t *testing.T) {
	repo := newFakeRepo(appt(1, "agendado", time.Now().Add(48*time.Hour)))

	_, err := newBulk(repo, nil).Execute(context.Background(), 1, 9, bulk.ActionConfirm, []uint{1, 5})

	var v *bulk.Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "record_not_found", v.Rule)
	assert.Zero(t, repo.calls())
}

func TestBulkSelectionErrors(t *testing.T) {
	repo := newFakeRepo()
	uc := newBulk(repo, nil)

	_, err := uc.Execute(context.Background(), 1, 9, bulk.ActionConfirm, []uint{0})
	assert.ErrorIs(t, err, bulk.ErrEmptySelection)

	_, err = uc.Execute(context.Background(), 1, 9, bulk.Action("arquivar"), []uint{1})
	assert.ErrorIs(t, err, bulk.ErrUnsupportedAction)
}

func TestBulkPartialFailureIsNotRolledBack(t *testing.T) {
	later := time.Now().Add(48 * time.Hour)
	repo := newFakeRepo(appt(1, "agendado", later), appt(2, "agendado", later), appt(3, "agendado", later))
	repo.failUpdate[2] = errors.New("connection reset")

	res, err := newBulk(repo, nil).Execute(context.Background(), 1, 9, bulk.ActionConfirm, []uint{1, 2, 3})

	require.NoError(t, err)
	assert.Equal(t, 3, res.Requested)
	assert.Equal(t, 2, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, uint(2), res.Failed[0].ID)
	assert.Len(t, repo.updates, 2)
}

func TestBulkCompleteAwardsPoints(t *testing.T) {
	yesterday := time.Now().Add(-24 * time.Hour)
	repo := newFakeRepo(appt(1, "confirmado", yesterday), appt(2, "confirmado", yesterday))
	awarder := &fakeAwarder{}

	res, err := newBulk(repo, awarder).Execute(context.Background(), 1, 9, bulk.ActionComplete, []uint{1, 2})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)
	assert.ElementsMatch(t, []uint{1, 2}, awarder.awarded)
}

func TestBulkDelete(t *testing.T) {
	repo := newFakeRepo(appt(1, "cancelado", time.Now()), appt(2, "agendado", time.Now()))

	res, err := newBulk(repo, nil).Execute(context.Background(), 1, 9, bulk.ActionDelete, []uint{2, 1, 2})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Requested)
	assert.ElementsMatch(t, []uint{1, 2}, repo.deletes)
	assert.Empty(t, repo.updates)
}
