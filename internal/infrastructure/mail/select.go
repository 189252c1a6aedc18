package mail

import (
	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
)

// Settings carries the credentials used to pick a sender.
type Settings struct {
	From         string
	ResendAPIKey string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
}

// SelectSender picks the mail transport once at boot: the Resend API when
// its key is set, else SMTP when all four credentials are set, else nil.
// There is no failover between senders afterwards.
func SelectSender(s Settings, logger zerolog.Logger) ports.Mailer {
	if s.ResendAPIKey != "" {
		logger.Info().Str("provider", "resend").Msg("Email sender configured")
		return NewResendSender(s.ResendAPIKey, s.From)
	}

	if s.SMTPHost != "" && s.SMTPPort != 0 && s.SMTPUser != "" && s.SMTPPass != "" {
		sender := NewSMTPSender(s.SMTPHost, s.SMTPPort, s.SMTPUser, s.SMTPPass, s.From)
		logger.Info().Str("provider", "smtp").Str("host", sender.host).Msg("Email sender configured")
		return sender
	}

	logger.Warn().Msg("No email sender configured; notifications will be skipped")
	return nil
}
