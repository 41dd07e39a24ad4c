package domain

import "regexp"

// List of possible courier statuses
const (
	StatusAvailable CourierStatus = "available"
	StatusBusy      CourierStatus = "busy"
	StatusPaused    CourierStatus = "paused"
)

// List of possible courier transport types
const (
	TransportTypeFoot    CourierTransportType = "on_foot"
	TransportTypeScooter CourierTransportType = "scooter"
	TransportTypeCar     CourierTransportType = "car"
)

var allowedStatuses = [...]CourierStatus{
	StatusAvailable, StatusBusy, StatusPaused,
}

var allowedTransportTypes = [...]CourierTransportType{
	TransportTypeFoot, TransportTypeScooter, TransportTypeCar,
}

// Valid checks if the CourierStatus is valid
func (s CourierStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the CourierTransportType is valid
func (t CourierTransportType) Valid() bool {
	for _, v := range allowedTransportTypes {
		if t == v {
			return true
		}
	}
	return false
}

var rePhone = regexp.MustCompile(`^\+[0-9]{11}$`)

// ValidatePhone validates the phone number format
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}

// DeliveryStatus is the lifecycle status of a delivery request.
type DeliveryStatus string

// Delivery statuses governed by dispatch.
const (
	DeliveryCreated             DeliveryStatus = "created"
	DeliverySearching           DeliveryStatus = "searching"
	DeliveryOffered             DeliveryStatus = "offered"
	DeliveryAccepted            DeliveryStatus = "accepted"
	DeliveryMatched             DeliveryStatus = "matched"
	DeliveryNoCouriersAvailable DeliveryStatus = "no_couriers_available"
	DeliveryCancelled           DeliveryStatus = "cancelled"
)

var allowedDeliveryStatuses = [...]DeliveryStatus{
	DeliveryCreated, DeliverySearching, DeliveryOffered, DeliveryAccepted,
	DeliveryMatched, DeliveryNoCouriersAvailable, DeliveryCancelled,
}

// Valid checks if the DeliveryStatus is known.
func (s DeliveryStatus) Valid() bool {
	for _, v := range allowedDeliveryStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether dispatch no longer acts on the delivery.
func (s DeliveryStatus) Terminal() bool {
	switch s {
	case DeliveryMatched, DeliveryNoCouriersAvailable, DeliveryCancelled:
		return true
	default:
		return false
	}
}
