package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/trace"

	"courier-dispatch/internal/domain"
)

// StatusEvent is published on the status bus for every delivery status broadcast.
type StatusEvent struct {
	DeliveryID int64                 `json:"delivery_id"`
	Status     domain.DeliveryStatus `json:"status"`
	At         time.Time             `json:"at"`
	Extra      map[string]any        `json:"extra,omitempty"`
}

type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSPublisher writes status events to a NATS subject.
type NATSPublisher struct {
	conn    msgPublisher
	subject string
}

// NewNATSPublisher builds a publisher over a NATS connection.
func NewNATSPublisher(conn msgPublisher, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject}
}

// Publish sends the event with trace and type headers.
func (p *NATSPublisher) Publish(ctx context.Context, event StatusEvent) error {
	if p == nil || p.conn == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = payload
	msg.Header.Set("x-event-type", string(event.Status))
	if id := traceIDFromContext(ctx); id != "" {
		msg.Header.Set("x-trace-id", id)
	}
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}

func traceIDFromContext(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
