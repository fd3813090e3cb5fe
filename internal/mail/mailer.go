// Package mail sends transactional email: account verification links
// and contact-form relays to the operator mailbox.
package mail

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/srijanidas-codeclouds/Resume-Builder/internal/config"
)

// Mailer sends HTML email over SMTP. With SMTP unconfigured, sends are
// logged and skipped so local environments work without a relay.
type Mailer struct {
	cfg     config.SMTPConfig
	baseURL string
	logger  *slog.Logger
}

// NewMailer builds a mailer. baseURL is the public address used in
// verification links.
func NewMailer(cfg config.SMTPConfig, baseURL string, logger *slog.Logger) *Mailer {
	return &Mailer{cfg: cfg, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

func (m *Mailer) configured() bool {
	return m.cfg.Host != "" && m.cfg.From != ""
}

// SendVerification mails the account-activation link.
func (m *Mailer) SendVerification(toEmail, token string) error {
	if !m.configured() {
		m.logger.Warn("smtp not configured, skip verification email", slog.String("to", toEmail))
		return nil
	}
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("empty recipient")
	}

	link := fmt.Sprintf("%s/verify/%s", m.baseURL, token)
	return m.send(toEmail, "Verify Your Email", verificationBody(link))
}

// RelayContactMessage forwards a contact-form submission to the
// operator mailbox.
func (m *Mailer) RelayContactMessage(fromName, fromEmail, message string) error {
	if !m.configured() {
		m.logger.Warn("smtp not configured, skip contact relay", slog.String("from", fromEmail))
		return nil
	}
	if m.cfg.OperatorMailbox == "" {
		m.logger.Warn("operator mailbox not configured, skip contact relay")
		return nil
	}

	subject := fmt.Sprintf("Contact form message from %s", fromName)
	return m.send(m.cfg.OperatorMailbox, subject, contactBody(fromName, fromEmail, message))
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.Info("email sent", slog.String("to", to), slog.String("subject", subject))
	return nil
}
