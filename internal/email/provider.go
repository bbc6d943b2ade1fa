package email

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"inkwell_backend/internal/logger"
)

// SMTPSender delivers through an SMTP server using gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	name   string
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.FromEmail,
		name:   cfg.FromName,
	}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if msg.To == "" {
		return errors.New("no recipient specified")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	if s.name != "" {
		m.SetAddressHeader("From", s.from, s.name)
	} else {
		m.SetHeader("From", s.from)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender records that a message would have been sent. The body carries
// single-use links, so only its size is logged. Development only.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg *Message) error {
	logger.CtxInfo(ctx, "Email not sent (log transport)",
		"to", msg.To,
		"subject", msg.Subject,
		"body_bytes", len(msg.HTMLBody),
	)
	return nil
}
