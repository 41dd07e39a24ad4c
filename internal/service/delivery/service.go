// Package delivery exposes delivery requests and their dispatch to the transport layer.
package delivery

import (
	"context"
	"fmt"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/dispatch"
	"courier-dispatch/internal/domain"
)

// DispatchCommand starts matching couriers for a stored delivery.
// Nil Origin falls back to the stored pickup point, nil MaxDistanceKm to the configured radius.
type DispatchCommand struct {
	DeliveryID     int64
	Origin         *domain.Location
	MaxDistanceKm  *float64
	Capability     string
	CustomerHandle string
}

// Service coordinates delivery storage and the dispatch engine.
type Service struct {
	repo             deliveryRepository
	engine           dispatcher
	defaultRadiusKm  float64
	operationTimeout time.Duration
}

// NewService creates a delivery Service.
func NewService(repo deliveryRepository, engine dispatcher, defaultRadiusKm float64, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: repo, engine: engine, defaultRadiusKm: defaultRadiusKm, operationTimeout: timeout}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Create validates and stores a new delivery request.
func (s *Service) Create(ctx context.Context, d *domain.Delivery) error {
	if d == nil || d.CustomerID <= 0 {
		return fmt.Errorf("customer id must be positive: %w", apperr.ErrInvalid)
	}
	if !d.Origin.Valid() || !d.Destination.Valid() {
		return fmt.Errorf("location out of range: %w", apperr.ErrInvalid)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Create(ctx, d)
}

// Get returns a stored delivery.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Delivery, error) {
	if id <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.LoadDelivery(ctx, id)
}

// Dispatch starts a dispatch session for the delivery.
func (s *Service) Dispatch(ctx context.Context, cmd DispatchCommand) (dispatch.SessionInfo, error) {
	if cmd.DeliveryID <= 0 {
		return dispatch.SessionInfo{}, apperr.ErrInvalid
	}
	req := dispatch.StartRequest{
		DeliveryID:     cmd.DeliveryID,
		MaxDistanceKm:  s.defaultRadiusKm,
		Capability:     cmd.Capability,
		CustomerHandle: cmd.CustomerHandle,
	}
	if cmd.MaxDistanceKm != nil {
		req.MaxDistanceKm = *cmd.MaxDistanceKm
	}
	if cmd.Origin != nil {
		req.Origin = *cmd.Origin
	} else {
		d, err := s.Get(ctx, cmd.DeliveryID)
		if err != nil {
			return dispatch.SessionInfo{}, err
		}
		req.Origin = d.Origin
	}
	return s.engine.StartDispatch(ctx, req)
}

// Accept records a courier accepting the outstanding offer.
func (s *Service) Accept(ctx context.Context, deliveryID, courierID int64) error {
	if deliveryID <= 0 || courierID <= 0 {
		return apperr.ErrInvalid
	}
	return s.engine.OnAccept(ctx, deliveryID, courierID)
}

// Reject records a courier declining the outstanding offer.
func (s *Service) Reject(ctx context.Context, deliveryID, courierID int64, reason string) error {
	if deliveryID <= 0 || courierID <= 0 {
		return apperr.ErrInvalid
	}
	return s.engine.OnReject(ctx, deliveryID, courierID, reason)
}

// Cancel cancels the delivery and stops its dispatch.
func (s *Service) Cancel(ctx context.Context, deliveryID int64) error {
	return s.engine.Cancel(ctx, deliveryID)
}

// Session returns the dispatch session of the delivery.
func (s *Service) Session(deliveryID int64) (dispatch.SessionInfo, error) {
	info, ok := s.engine.Session(deliveryID)
	if !ok {
		return dispatch.SessionInfo{}, fmt.Errorf("dispatch session for delivery %d: %w", deliveryID, apperr.ErrNotFound)
	}
	return info, nil
}
