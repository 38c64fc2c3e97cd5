package finance

import (
	"time"

	"github.com/shopspring/decimal"

	domainpay "github.com/plushify/plushify-api/internal/domain/payment"
	"github.com/plushify/plushify-api/internal/models"
)

// ClosureIncome sums the installments paid on the closed day. Every payment
// is settled through its installments, including the ones paid up front.
func ClosureIncome(paid []models.Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range paid {
		if domainpay.InstallmentStatus(inst.Status) != domainpay.InstallmentPaid {
			continue
		}
		total = total.Add(inst.Amount)
	}
	return total
}

// ClosureDay normalizes a date to the midnight that identifies a closure.
func ClosureDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
