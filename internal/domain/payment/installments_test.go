package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/models"
)

func TestPlanInstallments(t *testing.T) {
	due := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("remainder goes to last installment", func(t *testing.T) {
		plan, err := PlanInstallments(decimal.RequireFromString("100"), 3, due)
		require.NoError(t, err)
		require.Len(t, plan, 3)

		assert.True(t, plan[0].Amount.Equal(decimal.RequireFromString("33.33")))
		assert.True(t, plan[1].Amount.Equal(decimal.RequireFromString("33.33")))
		assert.True(t, plan[2].Amount.Equal(decimal.RequireFromString("33.34")))

		total := decimal.Zero
		for i, inst := range plan {
			total = total.Add(inst.Amount)
			assert.Equal(t, i+1, inst.InstallmentNumber)
			assert.Equal(t, 3, inst.TotalInstallments)
			assert.Equal(t, string(InstallmentPending), inst.Status)
		}
		assert.True(t, total.Equal(decimal.RequireFromString("100")))
	})

	t.Run("monthly due dates", func(t *testing.T) {
		plan, err := PlanInstallments(decimal.RequireFromString("90"), 2, due)
		require.NoError(t, err)
		assert.Equal(t, due, plan[0].DueDate)
		assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), plan[1].DueDate)
	})

	t.Run("month end is clamped", func(t *testing.T) {
		plan, err := PlanInstallments(decimal.RequireFromString("120"), 4, time.Date(2028, 1, 31, 9, 30, 0, 0, time.UTC))
		require.NoError(t, err)

		want := []time.Time{
			time.Date(2028, 1, 31, 9, 30, 0, 0, time.UTC),
			time.Date(2028, 2, 29, 9, 30, 0, 0, time.UTC),
			time.Date(2028, 3, 31, 9, 30, 0, 0, time.UTC),
			time.Date(2028, 4, 30, 9, 30, 0, 0, time.UTC),
		}
		for i, inst := range plan {
			assert.Equal(t, want[i], inst.DueDate, "installment %d", i+1)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := PlanInstallments(decimal.RequireFromString("90"), 0, due)
		assert.True(t, httperr.IsBusiness(err, "invalid_installments"))

		_, err = PlanInstallments(decimal.Zero, 2, due)
		assert.True(t, httperr.IsBusiness(err, "invalid_amount"))
	})
}

func TestPayInstallment(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	p := &models.Payment{
		Amount:     decimal.RequireFromString("100"),
		PaidAmount: decimal.Zero,
		Status:     string(StatusPending),
	}
	first := &models.Installment{Amount: decimal.RequireFromString("50"), Status: string(InstallmentPending)}
	second := &models.Installment{Amount: decimal.RequireFromString("50"), Status: string(InstallmentPending)}

	require.NoError(t, PayInstallment(p, first, now))
	assert.Equal(t, string(StatusPartial), p.Status)
	assert.Equal(t, string(InstallmentPaid), first.Status)

	err := PayInstallment(p, first, now)
	assert.True(t, httperr.IsBusiness(err, "installment_already_paid"))

	require.NoError(t, PayInstallment(p, second, now))
	assert.Equal(t, string(StatusPaid), p.Status)
	assert.True(t, p.PaidAmount.Equal(p.Amount))
}

func TestPaymentRules(t *testing.T) {
	assert.True(t, httperr.IsBusiness(CanDelete(StatusPaid), "delete_forbidden"))
	assert.NoError(t, CanDelete(StatusPending))
	assert.NoError(t, CanCancel(StatusPartial))
	assert.Error(t, CanCancel(StatusPaid))
}
