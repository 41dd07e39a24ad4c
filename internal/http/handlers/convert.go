package handlers

import (
	"courier-dispatch/internal/dispatch"
	"courier-dispatch/internal/domain"
)

func (req createCourierRequest) toModel() *domain.Courier {
	return &domain.Courier{
		Name:          req.Name,
		Phone:         req.Phone,
		Status:        req.Status,
		TransportType: req.TransportType,
	}
}

func courierToResponse(c domain.Courier) courierDTO {
	return courierDTO{
		ID:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		Status:        c.Status,
		TransportType: c.TransportType,
	}
}

func couriersToResponse(list []domain.Courier) []courierDTO {
	out := make([]courierDTO, 0, len(list))
	for _, c := range list {
		out = append(out, courierToResponse(c))
	}
	return out
}

func presencesToResponse(list []domain.Presence) []presenceDTO {
	out := make([]presenceDTO, 0, len(list))
	for _, p := range list {
		out = append(out, presenceDTO{
			CourierID:    p.CourierID,
			Location:     locationToResponse(p.Location),
			Capabilities: p.Capabilities,
			Available:    p.Available,
			UpdatedAt:    p.UpdatedAt,
		})
	}
	return out
}

func locationToResponse(l domain.Location) locationDTO {
	return locationDTO{Lat: l.Lat, Lon: l.Lon}
}

func (l locationDTO) toModel() domain.Location {
	return domain.Location{Lat: l.Lat, Lon: l.Lon}
}

func (req createDeliveryRequest) toModel() *domain.Delivery {
	return &domain.Delivery{
		CustomerID:  req.CustomerID,
		Origin:      req.Origin.toModel(),
		Destination: req.Destination.toModel(),
	}
}

func deliveryToResponse(d *domain.Delivery) deliveryDTO {
	return deliveryDTO{
		ID:          d.ID,
		CustomerID:  d.CustomerID,
		CourierID:   d.CourierID,
		Origin:      locationToResponse(d.Origin),
		Destination: locationToResponse(d.Destination),
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func sessionToResponse(info dispatch.SessionInfo) sessionDTO {
	out := sessionDTO{
		DeliveryID:       info.DeliveryID,
		State:            string(info.State),
		Candidates:       make([]candidateDTO, 0, len(info.Candidates)),
		Notified:         info.Notified,
		CurrentCourierID: info.CurrentCourierID,
		MatchedCourierID: info.MatchedCourierID,
		StartedAt:        info.StartedAt,
	}
	if out.Notified == nil {
		out.Notified = []int64{}
	}
	for _, c := range info.Candidates {
		out.Candidates = append(out.Candidates, candidateDTO{
			CourierID:  c.CourierID,
			DistanceKm: c.DistanceKm,
			Distance:   c.Distance,
		})
	}
	if !info.FinishedAt.IsZero() {
		f := info.FinishedAt
		out.FinishedAt = &f
	}
	return out
}
