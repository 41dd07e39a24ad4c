//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=intake

package intake

import (
	"context"

	"courier-dispatch/internal/dispatch"
	"courier-dispatch/internal/service/delivery"
)

// DeliveryPort abstracts the subset of delivery service operations
// needed by the Processor when handling intake events
type DeliveryPort interface {
	Dispatch(ctx context.Context, cmd delivery.DispatchCommand) (dispatch.SessionInfo, error)
	Cancel(ctx context.Context, deliveryID int64) error
}
