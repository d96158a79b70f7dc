package sms

import (
	"errors"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"umuganda_backend/internals/configs"
)

// Sender is the narrow SMS contract the services depend on. Enabled reports
// whether a real provider is wired; callers that treat SMS as best-effort
// check it before stamping sms_sent_at.
type Sender interface {
	Enabled() bool
	Send(to, message string) error
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewSenderFromEnv returns a Twilio-backed sender, or a log-only sender when
// the credentials are not configured (local dev, CI).
func NewSenderFromEnv() Sender {
	if configs.TwilioAccountSID == "" || configs.TwilioAuthToken == "" || configs.TwilioFromNumber == "" {
		return &LogSender{}
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: configs.TwilioAccountSID,
		Password: configs.TwilioAuthToken,
	})
	return &TwilioSender{client: client, from: configs.TwilioFromNumber}
}

func (s *TwilioSender) Enabled() bool { return true }

func (s *TwilioSender) Send(to, message string) error {
	if to == "" {
		return errors.New("missing receiver phone number")
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		log.Printf("[INFO] SMS dispatched to %s (sid: %s)", to, *resp.Sid)
	}
	return nil
}

// LogSender is the unconfigured fallback: logs the message instead of sending.
type LogSender struct{}

func (s *LogSender) Enabled() bool { return false }

func (s *LogSender) Send(to, message string) error {
	log.Printf("[WARN] SMS not configured; preview -> %s: %s", to, message)
	return nil
}
