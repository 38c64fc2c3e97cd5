package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/models"
)

const MaxInstallments = 24

// PlanInstallments splits amount into n monthly installments. Every
// installment gets the same rounded share; the cents left over go to the last.
func PlanInstallments(amount decimal.Decimal, n int, firstDue time.Time) ([]models.Installment, error) {
	if n < 1 || n > MaxInstallments {
		return nil, httperr.ErrBusiness("invalid_installments")
	}
	if !amount.IsPositive() {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	share := amount.Div(decimal.NewFromInt(int64(n))).RoundDown(2)
	last := amount.Sub(share.Mul(decimal.NewFromInt(int64(n - 1))))

	out := make([]models.Installment, 0, n)
	for i := 0; i < n; i++ {
		value := share
		if i == n-1 {
			value = last
		}
		out = append(out, models.Installment{
			InstallmentNumber: i + 1,
			TotalInstallments: n,
			Amount:            value,
			DueDate:           addMonths(firstDue, i),
			Status:            string(InstallmentPending),
		})
	}
	return out, nil
}

// addMonths keeps the day of month, clamped to the last day of the target
// month (31/01 + 1 = 28/02 or 29/02).
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// StatusFor derives the payment status from how much was received.
func StatusFor(amount, paid decimal.Decimal) Status {
	switch {
	case paid.GreaterThanOrEqual(amount):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusPending
	}
}

// PayInstallment marks one installment as paid and rolls the amount into its payment.
func PayInstallment(p *models.Payment, inst *models.Installment, now time.Time) error {
	if Status(p.Status) == StatusCancelled {
		return httperr.ErrBusiness("invalid_state")
	}
	if InstallmentStatus(inst.Status) == InstallmentPaid {
		return httperr.ErrBusiness("installment_already_paid")
	}

	inst.Status = string(InstallmentPaid)
	inst.PaymentDate = &now

	p.PaidAmount = p.PaidAmount.Add(inst.Amount)
	p.Status = string(StatusFor(p.Amount, p.PaidAmount))
	return nil
}
