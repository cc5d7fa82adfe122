package outbox

import (
	"context"
	"log/slog"
)

// LogProducer stands in for a broker when none is configured. Relayed events
// are written to the log and counted as delivered.
type LogProducer struct {
	Logger *slog.Logger
}

func (p LogProducer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.DebugContext(ctx, "event relayed", "topic", topic, "key", key, "type", headers["ce-type"], "bytes", len(payload))
	return nil
}

var _ Producer = LogProducer{}
