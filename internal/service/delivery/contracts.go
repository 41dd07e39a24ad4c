//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=delivery

package delivery

import (
	"context"

	"courier-dispatch/internal/dispatch"
	"courier-dispatch/internal/domain"
)

type deliveryRepository interface {
	Create(ctx context.Context, d *domain.Delivery) error
	LoadDelivery(ctx context.Context, id int64) (*domain.Delivery, error)
}

type dispatcher interface {
	StartDispatch(ctx context.Context, req dispatch.StartRequest) (dispatch.SessionInfo, error)
	OnAccept(ctx context.Context, deliveryID, courierID int64) error
	OnReject(ctx context.Context, deliveryID, courierID int64, reason string) error
	Cancel(ctx context.Context, deliveryID int64) error
	Session(deliveryID int64) (dispatch.SessionInfo, bool)
}
