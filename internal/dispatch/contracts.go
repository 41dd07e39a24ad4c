//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=dispatch -self_package=courier-dispatch/internal/dispatch

package dispatch

import (
	"context"
	"time"

	"courier-dispatch/internal/domain"
)

// ProfileFinder resolves durable courier profiles. A missing profile is
// reported as (nil, apperr.ErrNotFound).
type ProfileFinder interface {
	FindProfileByID(ctx context.Context, id int64) (*domain.Courier, error)
}

// DeliveryStore persists dispatch transitions of a delivery.
type DeliveryStore interface {
	LoadDelivery(ctx context.Context, id int64) (*domain.Delivery, error)
	UpdateStatus(ctx context.Context, id int64, status domain.DeliveryStatus) error
	MarkMatched(ctx context.Context, id, courierID int64) error
	MarkNoCouriersAvailable(ctx context.Context, id int64) error
	MarkCancelled(ctx context.Context, id int64) error
}

// Notifier pushes dispatch messages over the real-time transport.
type Notifier interface {
	SendOffer(ctx context.Context, handle string, offer OfferPayload) error
	SendNoMatch(ctx context.Context, handle string, reason string) error
	SendAccepted(ctx context.Context, handle string, payload AcceptedPayload) error
	BroadcastStatus(ctx context.Context, deliveryID int64, status domain.DeliveryStatus, extra map[string]any) error
}

// OfferJournal keeps an audit trail of offers.
type OfferJournal interface {
	RecordOffer(ctx context.Context, deliveryID, courierID int64, at time.Time) error
}
