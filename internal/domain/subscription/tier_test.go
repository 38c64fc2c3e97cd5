package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/plushify/plushify-api/internal/models"
)

func TestTrialGating(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	sub := NewTrial(1, now, 14)

	assert.True(t, Allows(&sub, FeatureAppointments, now))
	assert.True(t, Allows(&sub, FeatureBasicExport, now))
	assert.False(t, Allows(&sub, FeatureRichExport, now))
	assert.False(t, Allows(&sub, FeatureComparative, now))

	later := now.AddDate(0, 0, 15)
	assert.False(t, IsUsable(&sub, later))
	assert.False(t, Allows(&sub, FeatureAppointments, later))
}

func TestPaidTiers(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	pro := models.Subscription{Tier: string(TierProfessional), Status: string(StatusActive)}
	assert.True(t, Allows(&pro, FeatureComparative, now))
	assert.True(t, Allows(&pro, FeatureInventory, now))
	assert.False(t, Allows(&pro, FeatureReminders, now))

	ent := models.Subscription{Tier: string(TierEnterprise), Status: string(StatusActive)}
	assert.True(t, Allows(&ent, FeatureReminders, now))
	assert.True(t, Allows(&ent, FeatureArchive, now))
}

func TestPendingCheckoutKeepsTrialFeatures(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	sub := models.Subscription{
		Tier:        string(TierEnterprise),
		Status:      string(StatusPending),
		TrialEndsAt: now.Add(time.Hour),
	}

	assert.True(t, Allows(&sub, FeatureAppointments, now))
	assert.False(t, Allows(&sub, FeatureReminders, now))
}

func TestCancelledRunsUntilPeriodEnd(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := now.AddDate(0, 0, 10)
	sub := models.Subscription{Tier: string(TierProfessional), Status: string(StatusCancelled), CurrentPeriodEnd: &end}

	assert.True(t, Allows(&sub, FeatureInventory, now))
	assert.False(t, IsUsable(&sub, end.Add(time.Second)))
}

func TestStatusFromProcessor(t *testing.T) {
	assert.Equal(t, StatusActive, StatusFromProcessor("authorized"))
	assert.Equal(t, StatusCancelled, StatusFromProcessor("cancelled"))
	assert.Equal(t, StatusPending, StatusFromProcessor("pending"))
}
