package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/IBM/sarama"
)

// Inbox deduplicates deliveries by event ID.
type Inbox interface {
	Seen(ctx context.Context, eventID string) (bool, error)
}

// EventSink reacts to a relayed domain event by name.
type EventSink interface {
	HandleEvent(ctx context.Context, name string) error
}

type cloudEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Subject string `json:"subject"`
}

// EventHandler decodes CloudEvents published by the outbox worker and passes
// each event to the sinks once per event ID.
type EventHandler struct {
	Inbox  Inbox
	Sinks  []EventSink
	Logger *slog.Logger
}

func (h *EventHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt cloudEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil || evt.ID == "" {
		// Poison messages are logged and skipped.
		h.logger().WarnContext(ctx, "dropping malformed event", "topic", msg.Topic, "offset", msg.Offset)
		return nil
	}
	name := eventName(msg, evt)
	if h.Inbox != nil {
		seen, err := h.Inbox.Seen(ctx, evt.ID)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}
	}
	for _, sink := range h.Sinks {
		if err := sink.HandleEvent(ctx, name); err != nil {
			h.logger().ErrorContext(ctx, "event sink failed", "event", name, "id", evt.ID, "error", err)
			return err
		}
	}
	h.logger().DebugContext(ctx, "event consumed", "event", name, "id", evt.ID, "subject", evt.Subject)
	return nil
}

// eventName prefers the ce-type header, which carries the unversioned name.
func eventName(msg *sarama.ConsumerMessage, evt cloudEvent) string {
	for _, hdr := range msg.Headers {
		if hdr != nil && string(hdr.Key) == "ce-type" {
			return string(hdr.Value)
		}
	}
	return strings.TrimSuffix(evt.Type, ".v1")
}

func (h *EventHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var _ MessageHandler = (*EventHandler)(nil)
