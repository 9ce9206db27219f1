// Package mail forwards contact form submissions by SMTP.
package mail

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/store"
)

// ErrNotConfigured means no SMTP credentials were provided; the caller still
// has the message in the store.
var ErrNotConfigured = errors.New("SMTP credentials not configured")

// Notifier sends a contact message somewhere the site owner will see it.
type Notifier interface {
	Notify(m store.ContactMessage) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier mails each message to the configured inbox.
type SMTPNotifier struct {
	cfg  config.SMTP
	send sendFunc
}

// NewSMTPNotifier returns a notifier for cfg. TO_EMAIL defaults to the SMTP
// user.
func NewSMTPNotifier(cfg config.SMTP) *SMTPNotifier {
	if cfg.ToEmail == "" {
		cfg.ToEmail = cfg.User
	}
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}
}

// Notify composes and sends the notification.
func (n *SMTPNotifier) Notify(m store.ContactMessage) error {
	if !n.cfg.Configured() {
		return ErrNotConfigured
	}
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)
	addr := n.cfg.Host + ":" + n.cfg.Port
	if err := n.send(addr, auth, n.cfg.User, []string{n.cfg.ToEmail}, Compose(n.cfg, m)); err != nil {
		return fmt.Errorf("send contact mail: %w", err)
	}
	return nil
}

// Compose renders the RFC 822 message for m.
func Compose(cfg config.SMTP, m store.ContactMessage) []byte {
	subject := "Portfolio Contact: " + oneLine(m.Name)
	if m.Subject != "" {
		subject += " - " + oneLine(m.Subject)
	}
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Sent from your portfolio contact form
`, m.Name, m.Email, m.Subject, m.Message)

	var b strings.Builder
	b.WriteString("To: " + cfg.ToEmail + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("From: " + cfg.User + "\r\n")
	b.WriteString("Reply-To: " + oneLine(m.Email) + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(body + "\r\n")
	return []byte(b.String())
}

// oneLine strips CR/LF so visitor input cannot inject headers.
func oneLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
