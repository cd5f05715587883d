package notify

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"
	"time"
)

var (
	// ErrSMTPHostPortRequired is returned when Host/Port are missing.
	ErrSMTPHostPortRequired = errors.New("smtp host and port are required")
	// ErrSMTPNoSender is returned when no From address is configured.
	ErrSMTPNoSender = errors.New("no sender configured")
	// ErrInvalidRecipient is returned when the destination address does not
	// parse as a mail address. The address comes from an upstream identity
	// claim, so it cannot be trusted to be header-safe.
	ErrInvalidRecipient = errors.New("invalid recipient address")
)

// SMTPConfig configures the SMTP notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string

	// From is the sender address on outgoing mail.
	From string

	// Subject overrides the default subject line when non-empty.
	Subject string
}

// SMTP delivers passcodes over plain SMTP via net/smtp.
type SMTP struct {
	addr    string
	from    string
	subject string
	auth    smtp.Auth

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTP constructs an SMTP notifier.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}
	if cfg.From == "" {
		return nil, ErrSMTPNoSender
	}

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	subject := cfg.Subject
	if subject == "" {
		subject = "Your verification code"
	}

	return &SMTP{
		addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from:    cfg.From,
		subject: subject,
		auth:    auth,
		send:    smtp.SendMail,
	}, nil
}

// SendPasscode emails the code to the given address.
func (s *SMTP) SendPasscode(ctx context.Context, email, code string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	parsed, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecipient, err)
	}
	to := parsed.Address

	minutes := int(time.Until(expiresAt).Round(time.Minute).Minutes())
	body := fmt.Sprintf(
		"Your verification code is %s.\r\n\r\n"+
			"It expires in %d minutes. If you did not request this code, you can ignore this email.",
		code, minutes,
	)

	headers := []string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + s.subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}
	raw := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	if err := s.send(s.addr, s.auth, s.from, []string{to}, []byte(raw)); err != nil {
		return fmt.Errorf("smtp delivery failed: %w", err)
	}
	return nil
}

// Close implements Notifier; plain SMTP holds no persistent connection.
func (s *SMTP) Close() error { return nil }
