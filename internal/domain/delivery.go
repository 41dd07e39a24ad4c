package domain

import "time"

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64
	Lon float64
}

// Valid checks coordinate ranges.
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}

// Delivery is a persisted delivery request.
type Delivery struct {
	ID          int64
	CustomerID  int64
	CourierID   *int64
	Origin      Location
	Destination Location
	Status      DeliveryStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
