package mail

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ManuelReschke/CourseFox/internal/pkg/env"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends HTML emails via SMTP
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string

	send sendFunc
	now  func() time.Time
}

func NewSMTPMailerFromEnv() *SMTPMailer {
	return &SMTPMailer{
		Host:     env.GetEnv("SMTP_HOST", ""),
		Port:     env.GetEnv("SMTP_PORT", "25"),
		Username: env.GetEnv("SMTP_USERNAME", ""),
		Password: env.GetEnv("SMTP_PASSWORD", ""),
		send:     smtp.SendMail,
		now:      time.Now,
	}
}

// Configured reports whether an SMTP host is set.
func (m *SMTPMailer) Configured() bool {
	return strings.TrimSpace(m.Host) != ""
}

func (m *SMTPMailer) Send(ctx context.Context, from, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.Configured() {
		return errors.New("SMTP_HOST is not configured")
	}
	if strings.TrimSpace(to) == "" {
		return errors.New("recipient is required")
	}

	var auth smtp.Auth
	if m.Username != "" && m.Password != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)
	msg := m.buildMessage(from, to, subject, htmlBody)

	send := m.send
	if send == nil {
		send = smtp.SendMail
	}
	if err := send(addr, auth, senderAddress(from), []string{to}, msg); err != nil {
		log.Printf("SMTP send error: %v", err)
		return err
	}
	log.Printf("Email sent to %s via %s", to, addr)
	return nil
}

func (m *SMTPMailer) buildMessage(from, to, subject, htmlBody string) []byte {
	now := time.Now
	if m.now != nil {
		now = m.now
	}
	domain := "localhost"
	if at := strings.LastIndex(senderAddress(from), "@"); at >= 0 {
		domain = senderAddress(from)[at+1:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now().UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", uuid.NewString(), domain)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// senderAddress extracts the bare address from "Name <addr>".
func senderAddress(from string) string {
	from = strings.TrimSpace(from)
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return strings.TrimSpace(from[i+1 : j])
		}
	}
	return from
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
