package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/utils"
)

// webhookMessage is the JSON body posted for every notification.
type webhookMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type webhookNotifier struct {
	client *utils.HTTPClient
	url    string
	from   string
}

// NewWebhookNotifier returns a [Notifier] that POSTs each message as JSON
// to cfg.WebhookURL. Transport errors and 5xx responses are retried by the
// underlying client.
func NewWebhookNotifier(cfg config.Notifier) (Notifier, error) {
	if cfg.WebhookURL == "" {
		return nil, errors.New("webhook notifier: empty url")
	}
	return &webhookNotifier{
		client: utils.NewHTTPClient(cfg.Timeout),
		url:    cfg.WebhookURL,
		from:   cfg.From,
	}, nil
}

func (n *webhookNotifier) Send(ctx context.Context, to, subject, body string) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(webhookMessage{From: n.from, To: to, Subject: subject, Text: body}).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("%w: webhook request: %w", ErrDelivery, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	return nil
}
