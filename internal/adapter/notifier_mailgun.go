package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/mailgun/mailgun-go/v4"
)

type mailgunNotifier struct {
	mg      *mailgun.MailgunImpl
	from    string
	timeout time.Duration
}

// NewMailgunNotifier returns a [Notifier] backed by the Mailgun HTTP API.
func NewMailgunNotifier(cfg config.Notifier) Notifier {
	return &mailgunNotifier{
		mg:      mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey),
		from:    cfg.From,
		timeout: cfg.Timeout,
	}
}

func (n *mailgunNotifier) Send(ctx context.Context, to, subject, body string) error {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	msg := n.mg.NewMessage(n.from, subject, body, to)
	if _, _, err := n.mg.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: mailgun: %w", ErrDelivery, err)
	}
	return nil
}
