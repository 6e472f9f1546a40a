package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"food-ordering-system/internal/config"
	"food-ordering-system/internal/logger"
)

const mailSubject = "Your Food Order Bill"

// Dispatcher delivers a plain-text receipt to a recipient. Any
// transport-level error is a single failure class; callers do not
// distinguish retryable from terminal faults.
type Dispatcher interface {
	Send(ctx context.Context, recipient, body string) error
}

// Mailer dispatches receipts over authenticated SMTP submission.
type Mailer struct {
	client *mail.Client
	sender string
	logger *logger.Logger
}

// NewMailer creates an SMTP-backed dispatcher from config. Dial and
// send are bounded by the client timeout.
func NewMailer(cfg *config.SMTPConfig, log *logger.Logger) (*Mailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &Mailer{
		client: client,
		sender: cfg.Sender,
		logger: log,
	}, nil
}

// Send delivers the receipt text to the recipient.
func (m *Mailer) Send(ctx context.Context, recipient, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(mailSubject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Debug("mail_sent", "Receipt mail delivered", "", map[string]interface{}{
		"recipient": recipient,
		"body_size": len(body),
	})
	return nil
}
