package adapter

import (
	"context"

	"github.com/MKhiriev/go-tours/internal/logger"
)

type logNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier returns a [Notifier] that writes every message to the log
// instead of delivering it. Meant for local development.
func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{logger: log}
}

func (n *logNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.logger.Info().
		Str("func", "*logNotifier.Send").
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("notification")
	return nil
}
