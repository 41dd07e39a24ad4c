package dispatch

import (
	"time"

	"courier-dispatch/internal/domain"
)

// Reasons sent with no-match notifications.
const (
	ReasonNoCouriers       = "no couriers available nearby"
	ReasonDeliveryNotFound = "delivery not found"
)

// LocationPayload is a coordinate on the wire.
type LocationPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func toLocationPayload(l domain.Location) LocationPayload {
	return LocationPayload{Lat: l.Lat, Lon: l.Lon}
}

// OfferPayload is pushed to the courier holding the offer.
type OfferPayload struct {
	OfferID          string          `json:"offer_id"`
	DeliveryID       int64           `json:"delivery_id"`
	Distance         string          `json:"distance"`
	DistanceKm       float64         `json:"distance_km"`
	ExpiresInSeconds int             `json:"expires_in_seconds"`
	ExpiresAt        time.Time       `json:"expires_at"`
	Pickup           LocationPayload `json:"pickup"`
	Dropoff          LocationPayload `json:"dropoff"`
}

// AcceptedPayload confirms the match to the accepting courier.
type AcceptedPayload struct {
	DeliveryID int64           `json:"delivery_id"`
	CourierID  int64           `json:"courier_id"`
	CustomerID int64           `json:"customer_id"`
	Success    bool            `json:"success"`
	Pickup     LocationPayload `json:"pickup"`
	Dropoff    LocationPayload `json:"dropoff"`
}

// NoMatchPayload tells the customer that nobody took the delivery.
type NoMatchPayload struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason"`
}
