package app

import (
	"errors"

	"inkwell_backend/internal/config"
	"inkwell_backend/internal/email"
	"inkwell_backend/internal/logger"
)

var errSMTPRequired = errors.New("SMTP is not configured; token emails cannot be delivered in production")

// newMailSender picks SMTP when configured and the logging sender otherwise,
// and wraps either one in the circuit breaker. Production refuses to start without SMTP.
func newMailSender(cfg *config.Config) (email.Sender, error) {
	smtpCfg := email.ConfigFrom(cfg)

	var sender email.Sender
	if smtpCfg.Host == "" {
		if cfg.Server.Env == "production" {
			return nil, errSMTPRequired
		}
		logger.Warn("SMTP is not configured, token emails will only be logged", "env", cfg.Server.Env)
		sender = email.LogSender{}
	} else {
		smtp, err := email.NewSMTPSender(smtpCfg)
		if err != nil {
			return nil, err
		}
		sender = smtp
	}

	return email.NewBreakerSender(sender, cfg.Email.BreakerFailures, cfg.Email.BreakerTimeout), nil
}
