package handlers

import (
	"time"

	"courier-dispatch/internal/domain"
)

type courierDTO struct {
	ID            int64                       `json:"id"`
	Name          string                      `json:"name"`
	Phone         string                      `json:"phone"`
	Status        domain.CourierStatus        `json:"status"`
	TransportType domain.CourierTransportType `json:"transport_type"`
}

type createCourierRequest struct {
	Name          string                      `json:"name"`
	Phone         string                      `json:"phone"`
	Status        domain.CourierStatus        `json:"status"`
	TransportType domain.CourierTransportType `json:"transport_type"`
}

type updateStatusRequest struct {
	Status domain.CourierStatus `json:"status"`
}

type presenceDTO struct {
	CourierID    int64       `json:"courier_id"`
	Location     locationDTO `json:"location"`
	Capabilities []string    `json:"capabilities"`
	Available    bool        `json:"available"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type locationDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type createDeliveryRequest struct {
	CustomerID  int64       `json:"customer_id"`
	Origin      locationDTO `json:"origin"`
	Destination locationDTO `json:"destination"`
}

type deliveryDTO struct {
	ID          int64                 `json:"id"`
	CustomerID  int64                 `json:"customer_id"`
	CourierID   *int64                `json:"courier_id,omitempty"`
	Origin      locationDTO           `json:"origin"`
	Destination locationDTO           `json:"destination"`
	Status      domain.DeliveryStatus `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

type dispatchRequest struct {
	Origin         *locationDTO `json:"origin,omitempty"`
	MaxDistanceKm  *float64     `json:"max_distance_km,omitempty"`
	Capability     string       `json:"capability,omitempty"`
	CustomerHandle string       `json:"customer_handle,omitempty"`
}

type courierEventRequest struct {
	CourierID int64  `json:"courier_id"`
	Reason    string `json:"reason,omitempty"`
}

type candidateDTO struct {
	CourierID  int64   `json:"courier_id"`
	DistanceKm float64 `json:"distance_km"`
	Distance   string  `json:"distance"`
}

type sessionDTO struct {
	DeliveryID       int64          `json:"delivery_id"`
	State            string         `json:"state"`
	Candidates       []candidateDTO `json:"candidates"`
	Notified         []int64        `json:"notified"`
	CurrentCourierID int64          `json:"current_courier_id,omitempty"`
	MatchedCourierID int64          `json:"matched_courier_id,omitempty"`
	StartedAt        time.Time      `json:"started_at"`
	FinishedAt       *time.Time     `json:"finished_at,omitempty"`
}
