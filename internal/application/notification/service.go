package notification

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Service delivers outbound messages on a best-effort basis. Delivery
// failures are logged and never reported back to the caller.
type Service interface {
	Send(ctx context.Context, recipient, subject, body string)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	mailer mailer
	sms    smsSender
	log    zerolog.Logger
}

// NewService routes recipients starting with "+" (E.164) to sms and
// everything else to mailer. sms may be nil when SNS is unavailable.
func NewService(m mailer, sms smsSender, log zerolog.Logger) Service {
	return &service{
		mailer: m,
		sms:    sms,
		log:    log.With().Str("component", "notification").Logger(),
	}
}

func (s *service) Send(ctx context.Context, recipient, subject, body string) {
	if isPhoneNumber(recipient) {
		s.sendSMS(ctx, recipient, subject, body)
		return
	}
	if err := s.mailer.SendEmail(recipient, subject, body); err != nil {
		s.log.Warn().Err(err).Str("recipient", recipient).Str("subject", subject).Msg("email delivery failed")
	}
}

func (s *service) sendSMS(ctx context.Context, phone, subject, body string) {
	if s.sms == nil {
		s.log.Warn().Str("recipient", phone).Msg("sms sender not configured; notification dropped")
		return
	}
	if err := s.sms.SendSMS(ctx, phone, subject+"\n"+body); err != nil {
		s.log.Warn().Err(err).Str("recipient", phone).Str("subject", subject).Msg("sms delivery failed")
	}
}

func isPhoneNumber(recipient string) bool {
	return strings.HasPrefix(recipient, "+")
}
