package loyalty

import (
	"context"

	"github.com/plushify/plushify-api/internal/models"
)

type Repository interface {
	GetOrCreateAccount(ctx context.Context, businessID, clientID uint) (*models.LoyaltyAccount, error)

	// SaveMovement persists the account together with its ledger entry.
	// An entry tied to an appointment already credited returns
	// ErrAlreadyAwarded and changes nothing.
	SaveMovement(ctx context.Context, acc *models.LoyaltyAccount, entry *models.LoyaltyEntry) error

	ListEntries(ctx context.Context, accountID uint, limit int) ([]models.LoyaltyEntry, error)
}
