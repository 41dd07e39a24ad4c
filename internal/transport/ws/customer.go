package ws

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"courier-dispatch/internal/logx"
)

// CustomerHandler serves /ws/customers/{id}. The optional delivery_id query
// parameter subscribes the socket to that delivery's status updates.
type CustomerHandler struct {
	hub    *Hub
	logger logx.Logger
}

// NewCustomerHandler creates a CustomerHandler.
func NewCustomerHandler(hub *Hub, logger logx.Logger) *CustomerHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &CustomerHandler{hub: hub, logger: logger}
}

// FollowMessage subscribes the socket to another delivery.
type FollowMessage struct {
	DeliveryID int64 `json:"delivery_id"`
}

// TypeFollow is the only message customers send.
const TypeFollow = "follow"

func (h *CustomerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || customerID <= 0 {
		http.Error(w, `{"error":"invalid customer id"}`, http.StatusBadRequest)
		return
	}
	var deliveryID int64
	if v := r.URL.Query().Get("delivery_id"); v != "" {
		deliveryID, err = strconv.ParseInt(v, 10, 64)
		if err != nil || deliveryID <= 0 {
			http.Error(w, `{"error":"invalid delivery_id"}`, http.StatusBadRequest)
			return
		}
	}

	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", logx.Int64("customer_id", customerID), logx.Err(err))
		return
	}
	c := h.hub.Register(raw)
	logger := h.logger.With(logx.Int64("customer_id", customerID), logx.String("handle", c.handle))
	if deliveryID > 0 {
		_ = h.hub.Follow(deliveryID, c.handle)
	}
	_ = h.hub.Send(c.handle, TypeConnected, ConnectedPayload{Handle: c.handle})
	logger.Info("customer connected", logx.Int64("delivery_id", deliveryID))

	h.hub.serve(c, func(env Envelope) {
		if env.Type != TypeFollow {
			_ = h.hub.Send(c.handle, TypeError, ErrorPayload{Type: env.Type, Error: errUnknownType.Error()})
			return
		}
		var msg FollowMessage
		if err := decodePayload(env.Payload, &msg); err != nil || msg.DeliveryID <= 0 {
			_ = h.hub.Send(c.handle, TypeError, ErrorPayload{Type: env.Type, Error: "invalid input"})
			return
		}
		_ = h.hub.Follow(msg.DeliveryID, c.handle)
	})
	logger.Info("customer disconnected")
}
