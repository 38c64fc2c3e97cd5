package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

type fakeAPI struct {
	params []*openapi.CreateMessageParams
	err    error
}

func (f *fakeAPI) CreateMessage(p *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.params = append(f.params, p)
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &openapi.ApiV2010Message{Sid: &sid}, nil
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in, want string
		wantErr  bool
	}{
		{in: "(11) 98765-4321", want: "+5511987654321"},
		{in: "11 3456-7890", want: "+551134567890"},
		{in: "5511987654321", want: "+5511987654321"},
		{in: "+1 415 555 0100", want: "+14155550100"},
		{in: "1234", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizePhone(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTwilioSend(t *testing.T) {
	t.Run("whatsapp sender", func(t *testing.T) {
		api := &fakeAPI{}
		n := &Twilio{api: api, from: "whatsapp:+14155238886", log: zap.NewNop()}

		require.NoError(t, n.Send(context.Background(), "(11) 98765-4321", "Olá"))
		require.Len(t, api.params, 1)
		assert.Equal(t, "whatsapp:+5511987654321", *api.params[0].To)
		assert.Equal(t, "Olá", *api.params[0].Body)
	})

	t.Run("sms sender", func(t *testing.T) {
		api := &fakeAPI{}
		n := &Twilio{api: api, from: "+15005550006", log: zap.NewNop()}

		require.NoError(t, n.Send(context.Background(), "11987654321", "Olá"))
		assert.Equal(t, "+5511987654321", *api.params[0].To)
	})

	t.Run("provider error", func(t *testing.T) {
		n := &Twilio{api: &fakeAPI{err: errors.New("boom")}, from: "+1", log: zap.NewNop()}
		assert.Error(t, n.Send(context.Background(), "11987654321", "Olá"))
	})

	t.Run("bad phone never reaches provider", func(t *testing.T) {
		api := &fakeAPI{}
		n := &Twilio{api: api, from: "+1", log: zap.NewNop()}
		assert.ErrorIs(t, n.Send(context.Background(), "12", "Olá"), ErrInvalidPhone)
		assert.Empty(t, api.params)
	})
}
