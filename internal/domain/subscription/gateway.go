package subscription

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrGatewayUnavailable = errors.New("payment processor unavailable")

// CheckoutRequest describes a monthly recurring charge.
type CheckoutRequest struct {
	Reason      string
	ExternalRef string
	PayerEmail  string
	Amount      decimal.Decimal
	BackURL     string
}

// Preapproval is the processor's view of a recurring charge.
type Preapproval struct {
	ID          string
	Status      string
	InitPoint   string
	ExternalRef string
}

// Gateway is the payment processor port.
type Gateway interface {
	CreatePreapproval(ctx context.Context, req CheckoutRequest) (*Preapproval, error)
	GetPreapproval(ctx context.Context, id string) (*Preapproval, error)
	CancelPreapproval(ctx context.Context, id string) error
}
