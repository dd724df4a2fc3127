package adapter

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-tours/internal/config"
)

type smtpNotifier struct {
	addr    string
	host    string
	from    string
	auth    smtp.Auth
	timeout time.Duration

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier returns a [Notifier] that delivers through an SMTP relay.
// PLAIN auth is used when a username is configured.
func NewSMTPNotifier(cfg config.Notifier) Notifier {
	n := &smtpNotifier{
		addr:    net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		host:    cfg.SMTPHost,
		from:    cfg.From,
		timeout: cfg.Timeout,
		send:    smtp.SendMail,
	}
	if cfg.SMTPUsername != "" {
		n.auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return n
}

// Send runs smtp.SendMail in a goroutine, since net/smtp takes no context.
func (n *smtpNotifier) Send(ctx context.Context, to, subject, body string) error {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	msg := buildMessage(n.from, to, subject, body)
	done := make(chan error, 1)
	go func() {
		done <- n.send(n.addr, n.auth, envelopeAddress(n.from), []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: smtp: %w", ErrDelivery, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: smtp: %w", ErrDelivery, ctx.Err())
	}
}

// envelopeAddress extracts the bare address from "Name <addr>".
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		return strings.TrimSuffix(from[i+1:], ">")
	}
	return from
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
