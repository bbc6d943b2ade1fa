package email

import (
	"fmt"
	"time"

	"inkwell_backend/internal/config"
)

// SMTPConfig holds the SMTP server settings.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string

	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// ConfigFrom copies the email section of the application config.
func ConfigFrom(cfg *config.Config) SMTPConfig {
	return SMTPConfig{
		Host:            cfg.Email.SMTPHost,
		Port:            cfg.Email.SMTPPort,
		Username:        cfg.Email.SMTPUsername,
		Password:        cfg.Email.SMTPPassword,
		FromEmail:       cfg.Email.FromEmail,
		FromName:        cfg.Email.FromName,
		BreakerFailures: cfg.Email.BreakerFailures,
		BreakerTimeout:  cfg.Email.BreakerTimeout,
	}
}

func (c SMTPConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.Port)
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}
