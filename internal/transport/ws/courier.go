package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

// Inbound courier message types.
const (
	TypeOnline       = "online"
	TypeLocation     = "location"
	TypeAvailability = "availability"
	TypeOffline      = "offline"
	TypeAccept       = "accept"
	TypeReject       = "reject"
)

type presence interface {
	Upsert(courierID int64, handle string, loc domain.Location, capabilities []string, available bool)
	UpdateLocation(courierID int64, loc domain.Location) bool
	SetAvailability(courierID int64, available bool)
	Detach(courierID int64, handle string) bool
}

type courierEvents interface {
	OnAccept(ctx context.Context, deliveryID, courierID int64) error
	OnReject(ctx context.Context, deliveryID, courierID int64, reason string) error
}

// OnlineMessage announces the courier to the dispatcher.
type OnlineMessage struct {
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	Capabilities []string `json:"capabilities"`
	Available    *bool    `json:"available,omitempty"`
}

// LocationMessage updates the courier position.
type LocationMessage struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// AvailabilityMessage toggles whether the courier takes offers.
type AvailabilityMessage struct {
	Available bool `json:"available"`
}

// OfferReply answers an offer.
type OfferReply struct {
	DeliveryID int64  `json:"delivery_id"`
	Reason     string `json:"reason,omitempty"`
}

// ConnectedPayload tells the peer its handle.
type ConnectedPayload struct {
	Handle string `json:"handle"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// CourierHandler serves /ws/couriers/{id}.
type CourierHandler struct {
	hub      *Hub
	presence presence
	events   courierEvents
	logger   logx.Logger
}

// NewCourierHandler creates a CourierHandler.
func NewCourierHandler(hub *Hub, presence presence, events courierEvents, logger logx.Logger) *CourierHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &CourierHandler{hub: hub, presence: presence, events: events, logger: logger}
}

func (h *CourierHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	courierID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || courierID <= 0 {
		http.Error(w, `{"error":"invalid courier id"}`, http.StatusBadRequest)
		return
	}

	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", logx.Int64("courier_id", courierID), logx.Err(err))
		return
	}
	c := h.hub.Register(raw)
	logger := h.logger.With(logx.Int64("courier_id", courierID), logx.String("handle", c.handle))
	logger.Info("courier connected")
	_ = h.hub.Send(c.handle, TypeConnected, ConnectedPayload{Handle: c.handle})

	s := &courierSession{h: h, conn: c, courierID: courierID, logger: logger}
	h.hub.serve(c, s.handle)

	// a newer connection of the same courier keeps its presence
	if h.presence.Detach(courierID, c.handle) {
		logger.Info("courier went offline")
	}
	logger.Info("courier disconnected")
}

type courierSession struct {
	h         *CourierHandler
	conn      *Conn
	courierID int64
	online    bool
	logger    logx.Logger
}

func (s *courierSession) handle(env Envelope) {
	var err error
	switch env.Type {
	case TypeOnline:
		err = s.goOnline(env.Payload)
	case TypeLocation:
		err = s.updateLocation(env.Payload)
	case TypeAvailability:
		err = s.setAvailability(env.Payload)
	case TypeOffline:
		if s.h.presence.Detach(s.courierID, s.conn.handle) {
			s.logger.Info("courier went offline")
		}
		s.online = false
	case TypeAccept, TypeReject:
		err = s.reply(env.Type, env.Payload)
	default:
		err = errUnknownType
	}
	if err != nil {
		s.fail(env.Type, err)
	}
}

var (
	errUnknownType = errors.New("unknown message type")
	errNotOnline   = errors.New("courier is not online")
)

func (s *courierSession) goOnline(raw json.RawMessage) error {
	var msg OnlineMessage
	if err := decodePayload(raw, &msg); err != nil {
		return err
	}
	loc := domain.Location{Lat: msg.Lat, Lon: msg.Lon}
	if !loc.Valid() {
		return apperr.ErrInvalid
	}
	caps := msg.Capabilities
	if len(caps) == 0 {
		caps = []string{domain.CapabilityDeliveries}
	}
	available := true
	if msg.Available != nil {
		available = *msg.Available
	}
	s.h.presence.Upsert(s.courierID, s.conn.handle, loc, caps, available)
	s.online = true
	s.logger.Info("courier online",
		logx.Float64("lat", loc.Lat),
		logx.Float64("lon", loc.Lon),
		logx.Bool("available", available),
	)
	return nil
}

func (s *courierSession) updateLocation(raw json.RawMessage) error {
	if !s.online {
		return errNotOnline
	}
	var msg LocationMessage
	if err := decodePayload(raw, &msg); err != nil {
		return err
	}
	loc := domain.Location{Lat: msg.Lat, Lon: msg.Lon}
	if !loc.Valid() {
		return apperr.ErrInvalid
	}
	if !s.h.presence.UpdateLocation(s.courierID, loc) {
		return errNotOnline
	}
	return nil
}

func (s *courierSession) setAvailability(raw json.RawMessage) error {
	if !s.online {
		return errNotOnline
	}
	var msg AvailabilityMessage
	if err := decodePayload(raw, &msg); err != nil {
		return err
	}
	s.h.presence.SetAvailability(s.courierID, msg.Available)
	return nil
}

func (s *courierSession) reply(typ string, raw json.RawMessage) error {
	var msg OfferReply
	if err := decodePayload(raw, &msg); err != nil {
		return err
	}
	if msg.DeliveryID <= 0 {
		return apperr.ErrInvalid
	}
	ctx := context.Background()
	if typ == TypeAccept {
		return s.h.events.OnAccept(ctx, msg.DeliveryID, s.courierID)
	}
	return s.h.events.OnReject(ctx, msg.DeliveryID, s.courierID, msg.Reason)
}

func (s *courierSession) fail(typ string, err error) {
	s.logger.Debug("courier message rejected", logx.String("type", typ), logx.Err(err))
	_ = s.h.hub.Send(s.conn.handle, TypeError, ErrorPayload{Type: typ, Error: errorText(err)})
}

func decodePayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return apperr.ErrInvalid
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.ErrInvalid
	}
	return nil
}

// errorText maps domain errors to messages safe for the peer.
func errorText(err error) string {
	switch {
	case errors.Is(err, apperr.ErrStaleEvent):
		return "offer no longer valid"
	case errors.Is(err, apperr.ErrNotFound):
		return "delivery not found"
	case errors.Is(err, apperr.ErrInvalid):
		return "invalid input"
	case errors.Is(err, errNotOnline), errors.Is(err, errUnknownType):
		return err.Error()
	default:
		return "internal error"
	}
}
