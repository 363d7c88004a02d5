package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers a short text message to a phone number.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (s *TwilioSender) Send(_ context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send to %s: %w", to, err)
	}

	if resp.Sid != nil {
		log.Debug().Str("to", to).Str("sid", *resp.Sid).Msg("message sent")
	}
	return nil
}

// LogSender writes messages to the log. Used when no SMS provider is
// configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, body string) error {
	log.Info().
		Str("to", to).
		Str("body", strings.ReplaceAll(body, "\n", " | ")).
		Msg("notification")
	return nil
}

// NewSender picks Twilio when credentials are present.
func NewSender(accountSID, authToken, from string) Sender {
	if accountSID == "" || authToken == "" || from == "" {
		return LogSender{}
	}
	return NewTwilioSender(accountSID, authToken, from)
}
