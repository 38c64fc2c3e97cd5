package loyalty

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/infra/repository"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/testutil"
)

func newProgram(t *testing.T) *Program {
	db := testutil.NewDB(t, &models.LoyaltyAccount{}, &models.LoyaltyEntry{})
	return NewProgram(repository.NewLoyaltyGormRepository(db), nil)
}

func TestAwardForAppointment(t *testing.T) {
	p := newProgram(t)
	ctx := context.Background()

	ap := &models.Appointment{ID: 10, BusinessID: 1, ClientID: 5, Price: decimal.RequireFromString("520.90")}

	require.NoError(t, p.AwardForAppointment(ctx, ap))
	require.NoError(t, p.AwardForAppointment(ctx, ap), "second award is a no-op")

	b, err := p.Balance(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 520, b.Account.Points)
	assert.Equal(t, "prata", b.Account.Level)
	assert.Equal(t, "ouro", b.NextLevel)
	assert.Equal(t, 980, b.PointsToNext)
	assert.Len(t, b.History, 1)
}

func TestRedeem(t *testing.T) {
	p := newProgram(t)
	ctx := context.Background()

	require.NoError(t, p.AwardForAppointment(ctx, &models.Appointment{ID: 1, BusinessID: 1, ClientID: 5, Price: decimal.NewFromInt(100)}))

	acc, err := p.Redeem(ctx, 1, 9, 5, 60)
	require.NoError(t, err)
	assert.Equal(t, 40, acc.Points)
	assert.Equal(t, 100, acc.LifetimePoints)

	_, err = p.Redeem(ctx, 1, 9, 5, 41)
	c, _ := httperr.AsBusiness(err)
	assert.Equal(t, "insufficient_points", c)

	b, err := p.Balance(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 40, b.Account.Points)
}
