// Package notify delivers dispatch notifications to websocket peers and the status bus.
package notify

import (
	"context"
	"errors"
	"time"

	"courier-dispatch/internal/dispatch"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/transport/ws"
)

type sender interface {
	Send(handle string, typ string, payload any) error
	Followers(deliveryID int64) []string
}

type statusPublisher interface {
	Publish(ctx context.Context, event StatusEvent) error
}

// Gateway implements dispatch.Notifier over the websocket hub.
type Gateway struct {
	hub       sender
	publisher statusPublisher
	logger    logx.Logger
	now       func() time.Time
}

var _ dispatch.Notifier = (*Gateway)(nil)

// NewGateway creates a Gateway. publisher may be nil when no status bus is configured.
func NewGateway(hub sender, publisher statusPublisher, logger logx.Logger) *Gateway {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Gateway{hub: hub, publisher: publisher, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// SendOffer pushes a delivery offer to a courier.
func (g *Gateway) SendOffer(_ context.Context, handle string, offer dispatch.OfferPayload) error {
	return g.hub.Send(handle, ws.TypeDeliveryOffer, offer)
}

// SendNoMatch tells the customer that nobody took the delivery.
func (g *Gateway) SendNoMatch(_ context.Context, handle string, reason string) error {
	return g.hub.Send(handle, ws.TypeNoMatch, dispatch.NoMatchPayload{Success: false, Reason: reason})
}

// SendAccepted confirms the match to the courier.
func (g *Gateway) SendAccepted(_ context.Context, handle string, payload dispatch.AcceptedPayload) error {
	return g.hub.Send(handle, ws.TypeDeliveryAccepted, payload)
}

// BroadcastStatus fans the status out to every follower and publishes it on the bus.
// Follower send failures are logged; only a bus failure is returned.
func (g *Gateway) BroadcastStatus(ctx context.Context, deliveryID int64, status domain.DeliveryStatus, extra map[string]any) error {
	msg := make(map[string]any, len(extra)+2)
	for k, v := range extra {
		msg[k] = v
	}
	msg["delivery_id"] = deliveryID
	msg["status"] = status

	for _, handle := range g.hub.Followers(deliveryID) {
		if err := g.hub.Send(handle, ws.TypeDeliveryStatus, msg); err != nil && !errors.Is(err, ws.ErrUnknownHandle) {
			g.logger.Warn("status push failed",
				logx.Int64("delivery_id", deliveryID),
				logx.String("handle", handle),
				logx.Err(err),
			)
		}
	}

	if g.publisher == nil {
		return nil
	}
	return g.publisher.Publish(ctx, StatusEvent{
		DeliveryID: deliveryID,
		Status:     status,
		At:         g.now(),
		Extra:      extra,
	})
}
