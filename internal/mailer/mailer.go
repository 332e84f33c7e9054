// Package mailer delivers transactional email.
package mailer

import (
	"context"    // Request scoped delivery
	"crypto/tls" // STARTTLS
	"errors"     // Error values
	"fmt"        // Formatting
	"net"        // Dialing
	"net/smtp"   // SMTP transport
	"strconv"    // Port formatting
	"strings"    // Header building
	"time"       // Timeouts

	"github.com/sirupsen/logrus" // Logging
)

// Message is a plain text email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// DefaultSendTimeout bounds one SMTP delivery when the caller sets no earlier deadline
const DefaultSendTimeout = 10 * time.Second

// SMTPMailer sends through an SMTP relay with PLAIN auth when credentials are set
type SMTPMailer struct {
	host    string
	addr    string
	auth    smtp.Auth
	from    string
	timeout time.Duration
	dialer  net.Dialer
}

// NewSMTPMailer creates an SMTP mailer
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		host:    host,
		addr:    net.JoinHostPort(host, strconv.Itoa(port)),
		auth:    auth,
		from:    from,
		timeout: DefaultSendTimeout,
	}
}

// Send delivers msg. The whole exchange is bounded by ctx and the send timeout.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

func (m *SMTPMailer) send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	conn, err := m.dialer.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return err
	}
	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return err
	}
	// Cancellation interrupts any blocked read or write
	stop := context.AfterFunc(ctx, func() { conn.SetDeadline(time.Now()) })
	defer stop()

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}
	if m.auth != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("server does not support AUTH")
		}
		if err := c.Auth(m.auth); err != nil {
			return err
		}
	}
	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(msg.To); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(Render(m.from, msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// Render builds the RFC 5322 message bytes
func Render(from string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}

// LogMailer writes messages to the log instead of sending them
type LogMailer struct {
	log logrus.FieldLogger
}

// NewLogMailer creates a mailer for local development
func NewLogMailer(log logrus.FieldLogger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs msg
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
		"body":    msg.Body,
	}).Info("Mail")
	return nil
}
