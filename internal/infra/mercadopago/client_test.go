package mercadopago

import (
	"context"
	"errors"
	"testing"

	"github.com/mercadopago/sdk-go/pkg/preapproval"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/plushify/plushify-api/internal/domain/subscription"
)

type fakeAPI struct {
	created []preapproval.Request
	updated map[string]preapproval.UpdateRequest
	err     error
}

func (f *fakeAPI) Create(_ context.Context, r preapproval.Request) (*preapproval.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, r)
	return &preapproval.Response{
		ID:                "pre-1",
		Status:            "pending",
		InitPoint:         "https://mp.test/checkout/pre-1",
		ExternalReference: r.ExternalReference,
	}, nil
}

func (f *fakeAPI) Get(_ context.Context, id string) (*preapproval.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &preapproval.Response{ID: id, Status: "authorized", ExternalReference: "ref-1"}, nil
}

func (f *fakeAPI) Update(_ context.Context, id string, r preapproval.UpdateRequest) (*preapproval.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.updated == nil {
		f.updated = map[string]preapproval.UpdateRequest{}
	}
	f.updated[id] = r
	return &preapproval.Response{ID: id, Status: r.Status}, nil
}

func TestCreatePreapproval(t *testing.T) {
	api := &fakeAPI{}
	c := newClient(api, nil, zap.NewNop())

	got, err := c.CreatePreapproval(context.Background(), domain.CheckoutRequest{
		Reason:      "Plushify Profissional",
		ExternalRef: "ref-1",
		PayerEmail:  "dono@salao.com",
		Amount:      decimal.RequireFromString("79.90"),
		BackURL:     "https://app/assinatura",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://mp.test/checkout/pre-1", got.InitPoint)
	assert.Equal(t, "ref-1", got.ExternalRef)

	require.Len(t, api.created, 1)
	ar := api.created[0].AutoRecurring
	require.NotNil(t, ar)
	assert.Equal(t, 79.9, ar.TransactionAmount)
	assert.Equal(t, "BRL", ar.CurrencyID)
	assert.Equal(t, "months", ar.FrequencyType)
}

func TestCancelPreapproval(t *testing.T) {
	api := &fakeAPI{}
	c := newClient(api, nil, zap.NewNop())

	require.NoError(t, c.CancelPreapproval(context.Background(), "pre-9"))
	assert.Equal(t, "cancelled", api.updated["pre-9"].Status)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	api := &fakeAPI{err: errors.New("503")}
	c := newClient(api, nil, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := c.GetPreapproval(context.Background(), "pre-1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrGatewayUnavailable)
	}

	_, err := c.GetPreapproval(context.Background(), "pre-1")
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}
