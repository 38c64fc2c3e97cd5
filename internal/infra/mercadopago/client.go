// Package mercadopago adapts MercadoPago preapprovals (recurring charges)
// to the subscription gateway.
package mercadopago

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preapproval"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	domain "github.com/plushify/plushify-api/internal/domain/subscription"
	"github.com/plushify/plushify-api/internal/metrics"
)

const currency = "BRL"

// preapprovalAPI is the part of the SDK client used here.
type preapprovalAPI interface {
	Create(ctx context.Context, request preapproval.Request) (*preapproval.Response, error)
	Get(ctx context.Context, id string) (*preapproval.Response, error)
	Update(ctx context.Context, id string, request preapproval.UpdateRequest) (*preapproval.Response, error)
}

type Client struct {
	api     preapprovalAPI
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
	log     *zap.Logger
}

var _ domain.Gateway = (*Client)(nil)

func New(accessToken string, m *metrics.Metrics, log *zap.Logger) (*Client, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return newClient(preapproval.NewClient(cfg), m, log), nil
}

func newClient(api preapprovalAPI, m *metrics.Metrics, log *zap.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "mercadopago",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker mudou de estado",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &Client{api: api, breaker: breaker, metrics: m, log: log}
}

func (c *Client) CreatePreapproval(ctx context.Context, req domain.CheckoutRequest) (*domain.Preapproval, error) {
	amount, _ := req.Amount.Round(2).Float64()

	return c.call(func() (*preapproval.Response, error) {
		return c.api.Create(ctx, preapproval.Request{
			Reason:            req.Reason,
			ExternalReference: req.ExternalRef,
			PayerEmail:        req.PayerEmail,
			BackURL:           req.BackURL,
			AutoRecurring: &preapproval.AutoRecurringRequest{
				Frequency:         1,
				FrequencyType:     "months",
				TransactionAmount: amount,
				CurrencyID:        currency,
			},
		})
	})
}

func (c *Client) GetPreapproval(ctx context.Context, id string) (*domain.Preapproval, error) {
	return c.call(func() (*preapproval.Response, error) {
		return c.api.Get(ctx, id)
	})
}

func (c *Client) CancelPreapproval(ctx context.Context, id string) error {
	_, err := c.call(func() (*preapproval.Response, error) {
		return c.api.Update(ctx, id, preapproval.UpdateRequest{Status: "cancelled"})
	})
	return err
}

// call runs fn behind the breaker. An open breaker surfaces as
// ErrGatewayUnavailable.
func (c *Client) call(fn func() (*preapproval.Response, error)) (*domain.Preapproval, error) {
	out, err := c.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		c.metrics.ExternalError("mercadopago")
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, domain.ErrGatewayUnavailable
		}
		return nil, fmt.Errorf("mercadopago: %w", err)
	}

	res, _ := out.(*preapproval.Response)
	if res == nil {
		return nil, fmt.Errorf("mercadopago: empty response")
	}
	return &domain.Preapproval{
		ID:          res.ID,
		Status:      res.Status,
		InitPoint:   res.InitPoint,
		ExternalRef: res.ExternalReference,
	}, nil
}
