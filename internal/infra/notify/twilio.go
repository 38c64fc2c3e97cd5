// Package notify delivers short text messages to clients.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

var ErrInvalidPhone = errors.New("invalid phone number")

type Notifier interface {
	Send(ctx context.Context, to, body string) error
}

// messageAPI is the slice of the Twilio client used here.
type messageAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type Twilio struct {
	api  messageAPI
	from string
	log  *zap.Logger
}

var _ Notifier = (*Twilio)(nil)

func NewTwilio(accountSID, authToken, from string, log *zap.Logger) *Twilio {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Twilio{api: client.Api, from: from, log: log}
}

// Send uses WhatsApp when the sender is a whatsapp: address, SMS otherwise.
func (t *Twilio) Send(_ context.Context, to, body string) error {
	phone, err := NormalizePhone(to)
	if err != nil {
		return err
	}
	if strings.HasPrefix(t.from, "whatsapp:") {
		phone = "whatsapp:" + phone
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	t.log.Debug("mensagem enviada", zap.String("sid", sid))
	return nil
}

// NormalizePhone returns the E.164 form of a Brazilian number ("+55...").
// Numbers already carrying a "+" keep their country code.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	international := strings.HasPrefix(raw, "+")

	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)

	switch {
	case international && len(digits) >= 10:
		return "+" + digits, nil
	case len(digits) == 10 || len(digits) == 11:
		return "+55" + digits, nil
	case (len(digits) == 12 || len(digits) == 13) && strings.HasPrefix(digits, "55"):
		return "+" + digits, nil
	default:
		return "", ErrInvalidPhone
	}
}

// Log only logs messages. Used when no provider is configured.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log { return &Log{log: log} }

func (l *Log) Send(_ context.Context, to, body string) error {
	l.log.Info("lembrete (sem provedor)", zap.String("to", to), zap.String("body", body))
	return nil
}
