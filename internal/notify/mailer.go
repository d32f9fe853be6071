package notify

import (
	"errors"
	"fmt"
	"net/smtp"

	"student_portal/internal/config"

	"github.com/jordan-wright/email"
	"go.uber.org/zap"
)

var ErrSMTPConfigIncomplete = errors.New("SMTP configuration is incomplete")

// Message is a single email with a plain text body and an HTML alternative
type Message struct {
	From    string
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends composed messages
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer delivers messages through an SMTP server with PLAIN auth
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger.Named("smtp")}
}

func (m *SMTPMailer) complete() bool {
	return m.cfg.Host != "" && m.cfg.Port != "" && m.cfg.Username != "" && m.cfg.Password != ""
}

func buildEmail(msg Message) *email.Email {
	e := email.NewEmail()
	e.From = msg.From
	e.To = msg.To
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)
	if msg.HTML != "" {
		e.HTML = []byte(msg.HTML)
	}
	return e
}

// Send delivers msg. An empty From falls back to the configured sender.
func (m *SMTPMailer) Send(msg Message) error {
	if !m.complete() {
		return ErrSMTPConfigIncomplete
	}
	if msg.From == "" {
		msg.From = m.cfg.From
	}

	e := buildEmail(msg)
	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := e.Send(addr, auth); err != nil {
		m.logger.Error("failed to send email", zap.Strings("to", msg.To), zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("email sent", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
