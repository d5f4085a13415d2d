// Package mail delivers rendered reports over SMTP. Email is a secondary
// channel: failures are logged and never block or roll back anything.
package mail

import (
	"fmt"
	"strings"

	"log/slog"
	gomail "gopkg.in/gomail.v2"

	"github.com/m3rciful/spendbot/internal/config"
	"github.com/m3rciful/spendbot/internal/logger"
)

// Mailer sends daily report emails with the PDF attached.
type Mailer struct {
	cfg config.MailConfig
}

// NewMailer constructs a Mailer from config. When mail is not configured,
// SendReport becomes a silent no-op.
func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether SMTP delivery is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled()
}

// SendReport emails the PDF at path to the given address.
func (m *Mailer) SendReport(to, name, path string) error {
	if !m.Enabled() {
		return nil
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("mail: empty recipient")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Financial Report - "+name)
	msg.SetBody("text/plain", "Your daily transaction report is attached.")
	msg.Attach(path)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		logger.MAIL.Error("send failed",
			slog.String("event", "mail.send"),
			slog.String("host", m.cfg.Host),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("mail send: %w", err)
	}

	logger.MAIL.Info("sent",
		slog.String("event", "mail.send"),
		slog.String("host", m.cfg.Host),
	)
	return nil
}
