package domain

import "time"

// CapabilityDeliveries is the default service category couriers announce.
const CapabilityDeliveries = "deliveries"

// Presence is the ephemeral online state of a courier.
type Presence struct {
	CourierID    int64
	Handle       string
	Location     Location
	Capabilities []string
	Available    bool
	Seq          uint64
	UpdatedAt    time.Time
}

// Serves reports whether the presence announces the capability.
// An empty capability matches every courier.
func (p Presence) Serves(capability string) bool {
	if capability == "" {
		return true
	}
	for _, c := range p.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}
