// Package mail delivers one-time codes over SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// Sender delivers one-time codes to an email address. Implemented by the
// SMTP Mailer; handlers depend on the interface so tests can capture sends.
type Sender interface {
	SendSignupCode(ctx context.Context, to, code string) error
	SendResetCode(ctx context.Context, to, code string) error
}

// Mailer sends mail through a single SMTP server using STARTTLS when the
// server offers it and PLAIN auth when credentials are configured. Works
// against MailHog in development without auth or TLS.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
	// InsecureSkipVerify skips TLS certificate verification. Local dev only.
	InsecureSkipVerify bool
}

// NewMailer creates an SMTP mailer.
func NewMailer(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

// SendSignupCode mails a registration code.
func (m *Mailer) SendSignupCode(ctx context.Context, to, code string) error {
	body := fmt.Sprintf("Your One-Time Password (OTP) is: %s. It is valid for 5 minutes. Do not share this with anyone.", code)
	return m.send(ctx, to, "Your OTP for Registration", body)
}

// SendResetCode mails a password-reset code.
func (m *Mailer) SendResetCode(ctx context.Context, to, code string) error {
	body := fmt.Sprintf("Your One-Time Password (OTP) for password reset is: %s. It is valid for 5 minutes. Do not share this with anyone.", code)
	return m.send(ctx, to, "Password Reset OTP", body)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	var sb strings.Builder
	sb.WriteString("From: " + m.from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)

	dialer := &net.Dialer{Timeout: 5 * time.Second}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}

	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial smtp server: %w", err)
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer func() {
		_ = c.Quit()
	}()

	if err := c.Hello("localhost"); err != nil {
		return fmt.Errorf("smtp hello failed: %w", err)
	}

	if ok, _ := c.Extension("STARTTLS"); ok {
		cfg := &tls.Config{
			ServerName:         m.host,
			InsecureSkipVerify: m.InsecureSkipVerify,
		}
		if err := c.StartTLS(cfg); err != nil {
			return fmt.Errorf("smtp starttls failed: %w", err)
		}
		// Repeat EHLO after TLS to refresh the extension list
		if err := c.Hello("localhost"); err != nil {
			return fmt.Errorf("smtp hello after tls failed: %w", err)
		}
	}

	if m.user != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", m.user, m.pass, m.host)
			if err := c.Auth(auth); err != nil {
				return fmt.Errorf("smtp auth failed: %w", err)
			}
		}
	}

	if err := c.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail command failed: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt command failed: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data command failed: %w", err)
	}
	if _, err := w.Write([]byte(sb.String())); err != nil {
		return fmt.Errorf("failed to write message body: %w", err)
	}

	return w.Close()
}
