package domain

type (
	// CourierStatus represents the status of a courier profile.
	CourierStatus string
	// CourierTransportType represents the transport type of a courier.
	CourierTransportType string
)

// Courier is the durable courier profile.
type Courier struct {
	ID            int64
	Name          string
	Phone         string
	Status        CourierStatus
	TransportType CourierTransportType
}

// Available reports whether the profile allows new offers.
func (c Courier) Available() bool {
	return c.Status == StatusAvailable
}
