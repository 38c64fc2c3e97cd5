package payment

import (
	"context"
	"time"

	"github.com/plushify/plushify-api/internal/models"
)

type Repository interface {
	CreatePayment(ctx context.Context, p *models.Payment) error

	GetPayment(ctx context.Context, businessID, paymentID uint) (*models.Payment, error)

	ListPaymentsByIDs(ctx context.Context, businessID uint, ids []uint) ([]models.Payment, error)

	ListPaymentsForPeriod(ctx context.Context, businessID uint, start, end time.Time) ([]models.Payment, error)

	UpdatePaymentStatus(ctx context.Context, p *models.Payment) error

	// DeletePayment removes the payment and its installments and stores a
	// snapshot in the audit log, atomically.
	DeletePayment(ctx context.Context, businessID, paymentID uint, userID *uint) error

	GetInstallment(ctx context.Context, businessID, installmentID uint) (*models.Installment, *models.Payment, error)

	SaveInstallmentPayment(ctx context.Context, p *models.Payment, inst *models.Installment) error

	ListInstallmentsPaidBetween(ctx context.Context, businessID uint, start, end time.Time) ([]models.Installment, error)

	// Snapshots of deleted payments, kept in the audit log.
	ListDeletedPayments(ctx context.Context, businessID uint, start, end time.Time) ([]models.Payment, error)
}
