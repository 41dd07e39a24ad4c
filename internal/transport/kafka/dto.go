package kafka

import (
	"strings"
	"time"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/service/intake"
)

// LocationDTO is a pickup point in an intake event
type LocationDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// EventDTO is a data transfer object for intake.Event
type EventDTO struct {
	DeliveryID     int64        `json:"delivery_id"`
	Status         string       `json:"status"`
	Origin         *LocationDTO `json:"origin,omitempty"`
	MaxDistanceKm  *float64     `json:"max_distance_km,omitempty"`
	Capability     string       `json:"capability,omitempty"`
	CustomerHandle string       `json:"customer_handle,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// ToDomain converts EventDTO to intake.Event
func ToDomain(dto EventDTO) intake.Event {
	ev := intake.Event{
		DeliveryID:     dto.DeliveryID,
		Status:         strings.TrimSpace(dto.Status),
		MaxDistanceKm:  dto.MaxDistanceKm,
		Capability:     strings.TrimSpace(dto.Capability),
		CustomerHandle: strings.TrimSpace(dto.CustomerHandle),
		OccurredAt:     dto.CreatedAt,
	}
	if dto.Origin != nil {
		ev.Origin = &domain.Location{Lat: dto.Origin.Lat, Lon: dto.Origin.Lon}
	}
	return ev
}
