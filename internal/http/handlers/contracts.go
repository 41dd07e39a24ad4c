package handlers

import (
	"context"

	"courier-dispatch/internal/dispatch"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/service/delivery"
)

type courierUsecase interface {
	Get(ctx context.Context, id int64) (*domain.Courier, error)
	List(ctx context.Context, limit, offset *int) ([]domain.Courier, error)
	Create(ctx context.Context, c *domain.Courier) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.CourierStatus) error
}

type deliveryUsecase interface {
	Create(ctx context.Context, d *domain.Delivery) error
	Get(ctx context.Context, id int64) (*domain.Delivery, error)
	Dispatch(ctx context.Context, cmd delivery.DispatchCommand) (dispatch.SessionInfo, error)
	Accept(ctx context.Context, deliveryID, courierID int64) error
	Reject(ctx context.Context, deliveryID, courierID int64, reason string) error
	Cancel(ctx context.Context, deliveryID int64) error
	Session(deliveryID int64) (dispatch.SessionInfo, error)
}

type presenceLister interface {
	Snapshot(capability string, maxResults int) []domain.Presence
	All() []domain.Presence
}
