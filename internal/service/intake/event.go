package intake

import (
	"time"

	"courier-dispatch/internal/domain"
)

// Event is a delivery lifecycle event from the intake stream.
type Event struct {
	DeliveryID     int64
	Status         string
	Origin         *domain.Location
	MaxDistanceKm  *float64
	Capability     string
	CustomerHandle string
	OccurredAt     time.Time
}
