// Package intake turns delivery lifecycle events into dispatch commands.
package intake

import (
	"context"
	"errors"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/service/delivery"
)

// Processor processes delivery intake events
type Processor struct {
	delivery DeliveryPort
	logger   logx.Logger
	factory  *actionFactory
}

// NewProcessor creates a new intake Processor
func NewProcessor(deliverySvc DeliveryPort, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{delivery: deliverySvc, logger: logger}
	p.factory = newActionFactory(p.onCreated, p.onCancelled)
	return p
}

// Handle processes a single Event. Unknown statuses are ignored.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	fn, ok := p.factory.get(e.Status)
	if !ok {
		p.logger.Debug("intake event ignored",
			logx.Int64("delivery_id", e.DeliveryID),
			logx.String("status", e.Status),
		)
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onCreated(ctx context.Context, e Event) error {
	info, err := p.delivery.Dispatch(ctx, delivery.DispatchCommand{
		DeliveryID:     e.DeliveryID,
		Origin:         e.Origin,
		MaxDistanceKm:  e.MaxDistanceKm,
		Capability:     e.Capability,
		CustomerHandle: e.CustomerHandle,
	})
	// повторное событие: диспетчеризация уже идет или завершена
	if errors.Is(err, apperr.ErrConflict) {
		p.logger.Info("dispatch already in progress or done", logx.Int64("delivery_id", e.DeliveryID))
		return nil
	}
	if err != nil {
		return err
	}
	p.logger.Info("dispatch started from intake",
		logx.Int64("delivery_id", e.DeliveryID),
		logx.String("state", string(info.State)),
		logx.Int("candidates", len(info.Candidates)),
	)
	return nil
}

func (p *Processor) onCancelled(ctx context.Context, e Event) error {
	err := p.delivery.Cancel(ctx, e.DeliveryID)
	if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrConflict) {
		p.logger.Warn("cancel event not applied",
			logx.Int64("delivery_id", e.DeliveryID),
			logx.Err(err),
		)
		return nil
	}
	return err
}
