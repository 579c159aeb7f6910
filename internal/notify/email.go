package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailConfig holds SMTP delivery parameters.
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       []string
}

// EmailSender delivers notifications via SMTP with STARTTLS-capable plain
// auth. Auth is skipped when no user is configured (local relays).
type EmailSender struct {
	cfg EmailConfig
	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailSender creates an EmailSender from cfg.
func NewEmailSender(cfg EmailConfig) *EmailSender {
	return &EmailSender{cfg: cfg, send: smtp.SendMail}
}

// Send delivers the notification as a plain-text email. The context is
// honored only up front; net/smtp has no per-dial context hook.
func (e *EmailSender) Send(ctx context.Context, title, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if e.cfg.User != "" {
		auth = smtp.PlainAuth("", e.cfg.User, e.cfg.Password, e.cfg.Host)
	}

	msg := buildMessage(e.cfg.From, e.cfg.To, title, message)
	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)

	if err := e.send(addr, auth, e.cfg.From, e.cfg.To, msg); err != nil {
		return fmt.Errorf("email: send via %s: %w", addr, err)
	}
	return nil
}

// Name returns the sender identifier.
func (e *EmailSender) Name() string {
	return "email"
}

// buildMessage assembles a minimal RFC 5322 message with CRLF line endings.
func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
