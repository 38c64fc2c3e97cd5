package finance

import (
	"context"
	"strings"

	domain "github.com/plushify/plushify-api/internal/domain/finance"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/models"
)

// DefaultPaymentMethods are created for every new business.
var DefaultPaymentMethods = []string{"Dinheiro", "Pix", "Cartão de crédito", "Cartão de débito"}

type PaymentMethods struct {
	repo domain.Repository
}

func NewPaymentMethods(repo domain.Repository) *PaymentMethods {
	return &PaymentMethods{repo: repo}
}

func (uc *PaymentMethods) List(ctx context.Context, businessID uint) ([]models.PaymentMethod, error) {
	return uc.repo.ListPaymentMethods(ctx, businessID)
}

// Create rejects names already in use, ignoring case.
func (uc *PaymentMethods) Create(ctx context.Context, businessID uint, name string) (*models.PaymentMethod, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, httperr.ErrBusiness("invalid_name")
	}

	if existing, err := uc.repo.FindPaymentMethodByName(ctx, businessID, name); err == nil && existing != nil {
		return nil, httperr.ErrBusiness("payment_method_exists")
	}

	m := &models.PaymentMethod{BusinessID: businessID, Name: name}
	if err := uc.repo.CreatePaymentMethod(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Resolve finds a method by name, creating it when missing. Used by imports.
func (uc *PaymentMethods) Resolve(ctx context.Context, businessID uint, name string) (*uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if m, err := uc.repo.FindPaymentMethodByName(ctx, businessID, name); err == nil && m != nil {
		return &m.ID, nil
	}
	m, err := uc.Create(ctx, businessID, name)
	if err != nil {
		return nil, err
	}
	return &m.ID, nil
}

// Seed creates the default methods for a new business.
func (uc *PaymentMethods) Seed(ctx context.Context, businessID uint) error {
	for _, name := range DefaultPaymentMethods {
		if err := uc.repo.CreatePaymentMethod(ctx, &models.PaymentMethod{BusinessID: businessID, Name: name}); err != nil {
			return err
		}
	}
	return nil
}
