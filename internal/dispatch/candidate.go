package dispatch

import "courier-dispatch/internal/domain"

// Candidate is a ranked courier for a delivery.
type Candidate struct {
	CourierID  int64
	Handle     string
	Location   domain.Location
	DistanceKm float64
	Distance   string
	Profile    domain.Courier
}
