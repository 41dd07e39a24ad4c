package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

// Offer resolution outcomes reported to the Recorder.
const (
	OutcomeAccepted      = "accepted"
	OutcomeRejected      = "rejected"
	OutcomeExpired       = "expired"
	OutcomeUndeliverable = "undeliverable"
)

type candidateFinder interface {
	FindNearby(ctx context.Context, origin domain.Location, maxDistanceKm float64, capability string) []Candidate
}

type availabilitySetter interface {
	SetAvailability(courierID int64, available bool)
}

// Recorder receives dispatch metrics.
type Recorder interface {
	OfferSent()
	OfferResolved(outcome string)
	SessionFinished(state State, elapsed time.Duration)
	Candidates(n int)
}

// Config tunes the Engine.
type Config struct {
	OfferTimeout     time.Duration
	Retention        time.Duration
	OperationTimeout time.Duration
	Capability       string
}

const (
	defaultOfferTimeout     = 30 * time.Second
	defaultRetention        = 5 * time.Minute
	defaultOperationTimeout = 3 * time.Second
)

// StartRequest describes a delivery that needs a courier.
type StartRequest struct {
	DeliveryID     int64
	Origin         domain.Location
	MaxDistanceKm  float64
	Capability     string
	CustomerHandle string
}

func (r StartRequest) validate() error {
	if r.DeliveryID <= 0 {
		return fmt.Errorf("delivery id must be positive: %w", apperr.ErrInvalid)
	}
	if !r.Origin.Valid() {
		return fmt.Errorf("origin out of range: %w", apperr.ErrInvalid)
	}
	if math.IsNaN(r.MaxDistanceKm) || r.MaxDistanceKm < 0 {
		return fmt.Errorf("max distance must be non-negative: %w", apperr.ErrInvalid)
	}
	return nil
}

// Engine owns dispatch sessions and routes courier events to them.
// Work on one delivery is serialized by the session mutex; different
// deliveries proceed concurrently. Engine.mu is never held while waiting for a Session.mu.
type Engine struct {
	finder   candidateFinder
	store    DeliveryStore
	notifier Notifier
	presence availabilitySetter
	journal  OfferJournal
	metrics  Recorder
	clock    Clock
	tracer   trace.Tracer
	logger   logx.Logger
	cfg      Config

	mu       sync.Mutex
	sessions map[int64]*Session
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithClock replaces the wall clock and offer timers.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithJournal records every offer.
func WithJournal(j OfferJournal) Option {
	return func(e *Engine) { e.journal = j }
}

// WithRecorder reports dispatch metrics.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.metrics = r
		}
	}
}

// WithPresence marks matched couriers unavailable.
func WithPresence(p availabilitySetter) Option {
	return func(e *Engine) { e.presence = p }
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// NewEngine creates an Engine.
func NewEngine(finder candidateFinder, store DeliveryStore, notifier Notifier, logger logx.Logger, cfg Config, opts ...Option) *Engine {
	if cfg.OfferTimeout <= 0 {
		cfg.OfferTimeout = defaultOfferTimeout
	}
	if cfg.Retention <= 0 {
		cfg.Retention = defaultRetention
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = defaultOperationTimeout
	}
	if cfg.Capability == "" {
		cfg.Capability = domain.CapabilityDeliveries
	}
	if logger == nil {
		logger = logx.Nop()
	}
	e := &Engine{
		finder:   finder,
		store:    store,
		notifier: notifier,
		metrics:  nopRecorder{},
		clock:    RealClock{},
		tracer:   otel.Tracer("courier-dispatch/dispatch"),
		logger:   logger,
		cfg:      cfg,
		sessions: make(map[int64]*Session),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.cfg.OperationTimeout)
}

// StartDispatch ranks couriers around the origin and offers the delivery to the nearest one.
// Finding nobody is not an error: the session ends exhausted and the customer is notified.
func (e *Engine) StartDispatch(ctx context.Context, req StartRequest) (SessionInfo, error) {
	if err := req.validate(); err != nil {
		return SessionInfo{}, err
	}
	if req.Capability == "" {
		req.Capability = e.cfg.Capability
	}
	// the session outlives the caller
	ctx = context.WithoutCancel(ctx)
	ctx, span := e.tracer.Start(ctx, "dispatch.start", trace.WithAttributes(
		attribute.Int64("delivery.id", req.DeliveryID),
		attribute.Float64("dispatch.max_distance_km", req.MaxDistanceKm),
	))
	defer span.End()

	d, err := e.loadDelivery(ctx, req.DeliveryID)
	if err != nil {
		return SessionInfo{}, err
	}
	if !dispatchable(d.Status) {
		return SessionInfo{}, fmt.Errorf("delivery %d is %s: %w", d.ID, d.Status, apperr.ErrConflict)
	}

	s := newSession(req.DeliveryID, req.CustomerHandle, e.clock.Now())
	s.delivery = *d
	if err := e.register(s); err != nil {
		return SessionInfo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return s.info(), nil
	}

	e.logger.Info("dispatch started",
		logx.Int64("delivery_id", s.deliveryID),
		logx.Float64("max_distance_km", req.MaxDistanceKm),
		logx.String("capability", req.Capability),
	)
	e.setStatus(ctx, s.deliveryID, domain.DeliverySearching)
	e.broadcast(ctx, s.deliveryID, domain.DeliverySearching, nil)

	s.candidates = e.finder.FindNearby(ctx, req.Origin, req.MaxDistanceKm, req.Capability)
	e.metrics.Candidates(len(s.candidates))
	span.SetAttributes(attribute.Int("dispatch.candidates", len(s.candidates)))

	if len(s.candidates) == 0 {
		e.exhaust(ctx, s, ReasonNoCouriers, true)
		return s.info(), nil
	}
	s.state = StateOffering
	e.selectNext(ctx, s)
	return s.info(), nil
}

func dispatchable(status domain.DeliveryStatus) bool {
	switch status {
	case domain.DeliveryMatched, domain.DeliveryAccepted, domain.DeliveryCancelled:
		return false
	default:
		return true
	}
}

func (e *Engine) register(s *Session) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if old, ok := e.sessions[s.deliveryID]; ok {
		if _, done := old.finishedTime(); !done {
			return fmt.Errorf("dispatch for delivery %d already running: %w", s.deliveryID, apperr.ErrConflict)
		}
	}
	e.sessions[s.deliveryID] = s
	return nil
}

func (e *Engine) session(deliveryID int64) (*Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[deliveryID]
	return s, ok
}

// OnAccept matches the delivery to the courier holding the current offer.
// Accepts from anyone else, or after the offer was resolved, return apperr.ErrStaleEvent.
func (e *Engine) OnAccept(ctx context.Context, deliveryID, courierID int64) error {
	s, ok := e.session(deliveryID)
	if !ok {
		return fmt.Errorf("dispatch session for delivery %d: %w", deliveryID, apperr.ErrNotFound)
	}
	ctx = context.WithoutCancel(ctx)
	ctx, span := e.tracer.Start(ctx, "dispatch.accept", trace.WithAttributes(
		attribute.Int64("delivery.id", deliveryID),
		attribute.Int64("courier.id", courierID),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := e.ensureHolder(s, courierID, "accept")
	if err != nil {
		return err
	}
	if e.checkCancelled(ctx, s) {
		return fmt.Errorf("delivery %d no longer dispatching: %w", deliveryID, apperr.ErrStaleEvent)
	}

	opCtx, cancel := e.withTimeout(ctx)
	err = e.store.MarkMatched(opCtx, deliveryID, courierID)
	cancel()
	if err != nil {
		// the offer stays open: the courier may retry until the timer fires
		e.logger.Error("mark matched failed",
			logx.Int64("delivery_id", deliveryID),
			logx.Int64("courier_id", courierID),
			logx.Err(err),
		)
		return fmt.Errorf("mark delivery %d matched: %w", deliveryID, err)
	}

	s.stopTimer()
	s.matchedCourier = courierID
	e.metrics.OfferResolved(OutcomeAccepted)
	if e.presence != nil {
		e.presence.SetAvailability(courierID, false)
	}

	payload := AcceptedPayload{
		DeliveryID: deliveryID,
		CourierID:  courierID,
		CustomerID: s.delivery.CustomerID,
		Success:    true,
		Pickup:     toLocationPayload(s.delivery.Origin),
		Dropoff:    toLocationPayload(s.delivery.Destination),
	}
	if err := e.notifier.SendAccepted(ctx, c.Handle, payload); err != nil {
		e.logger.Warn("accepted notification failed",
			logx.Int64("delivery_id", deliveryID),
			logx.Int64("courier_id", courierID),
			logx.Err(err),
		)
	}
	e.broadcast(ctx, deliveryID, domain.DeliveryMatched, map[string]any{
		"courier_id":     courierID,
		"courier_name":   c.Profile.Name,
		"transport_type": string(c.Profile.TransportType),
		"distance":       c.Distance,
	})
	e.finish(s, StateAccepted)
	return nil
}

// OnReject moves the offer to the next ranked courier.
func (e *Engine) OnReject(ctx context.Context, deliveryID, courierID int64, reason string) error {
	s, ok := e.session(deliveryID)
	if !ok {
		return fmt.Errorf("dispatch session for delivery %d: %w", deliveryID, apperr.ErrNotFound)
	}
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := e.ensureHolder(s, courierID, "reject"); err != nil {
		return err
	}
	s.stopTimer()
	s.current = -1
	e.metrics.OfferResolved(OutcomeRejected)
	e.logger.Info("offer rejected",
		logx.Int64("delivery_id", deliveryID),
		logx.Int64("courier_id", courierID),
		logx.String("reason", reason),
	)
	e.selectNext(ctx, s)
	return nil
}

// Cancel stops dispatch for a delivery cancelled by the customer and persists the cancellation.
func (e *Engine) Cancel(ctx context.Context, deliveryID int64) error {
	if deliveryID <= 0 {
		return fmt.Errorf("delivery id must be positive: %w", apperr.ErrInvalid)
	}
	ctx = context.WithoutCancel(ctx)

	s, ok := e.session(deliveryID)
	if ok {
		s.mu.Lock()
		defer s.mu.Unlock()
		switch s.state {
		case StateAccepted:
			return fmt.Errorf("delivery %d already matched: %w", deliveryID, apperr.ErrConflict)
		case StateCancelled:
			return nil
		}
	}

	opCtx, cancel := e.withTimeout(ctx)
	err := e.store.MarkCancelled(opCtx, deliveryID)
	cancel()
	if err != nil {
		return fmt.Errorf("cancel delivery %d: %w", deliveryID, err)
	}

	if ok {
		s.cancelled = true
		if !s.state.Terminal() {
			e.finish(s, StateCancelled)
		}
	}
	e.logger.Info("delivery cancelled", logx.Int64("delivery_id", deliveryID))
	e.broadcast(ctx, deliveryID, domain.DeliveryCancelled, nil)
	return nil
}

// Session returns a copy of the dispatch session for a delivery.
func (e *Engine) Session(deliveryID int64) (SessionInfo, bool) {
	s, ok := e.session(deliveryID)
	if !ok {
		return SessionInfo{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info(), true
}

// Evict drops terminal sessions finished before now minus the retention period.
func (e *Engine) Evict(now time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for id, s := range e.sessions {
		at, done := s.finishedTime()
		if done && now.Sub(at) >= e.cfg.Retention {
			delete(e.sessions, id)
			n++
		}
	}
	return n
}

// RunJanitor evicts finished sessions every interval of the engine clock until ctx is done.
func (e *Engine) RunJanitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	tick := make(chan struct{}, 1)
	for {
		t := e.clock.AfterFunc(interval, func() {
			select {
			case tick <- struct{}{}:
			default:
			}
		})
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-tick:
			if n := e.Evict(e.clock.Now()); n > 0 {
				e.logger.Debug("dispatch sessions evicted", logx.Int("count", n))
			}
		}
	}
}

// Close stops all pending offer timers.
func (e *Engine) Close() {
	for _, s := range e.snapshot() {
		s.mu.Lock()
		s.stopTimer()
		s.mu.Unlock()
	}
}

// snapshot copies the live session pointers; session locks are taken only after Engine.mu is released.
func (e *Engine) snapshot() []*Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Session, 0, len(e.sessions))
	for _, s := range e.sessions {
		out = append(out, s)
	}
	return out
}

// ensureHolder checks that courierID holds the outstanding offer. Caller holds s.mu.
func (e *Engine) ensureHolder(s *Session, courierID int64, event string) (Candidate, error) {
	c, ok := s.holder()
	if !ok {
		e.logger.Warn("stale courier event",
			logx.String("event", event),
			logx.Int64("delivery_id", s.deliveryID),
			logx.Int64("courier_id", courierID),
			logx.String("state", string(s.state)),
		)
		return Candidate{}, fmt.Errorf("delivery %d is %s: %w", s.deliveryID, s.state, apperr.ErrStaleEvent)
	}
	if c.CourierID != courierID {
		e.logger.Warn("stale courier event",
			logx.String("event", event),
			logx.Int64("delivery_id", s.deliveryID),
			logx.Int64("courier_id", courierID),
			logx.Int64("holder_id", c.CourierID),
		)
		return Candidate{}, fmt.Errorf("courier %d does not hold the offer for delivery %d: %w",
			courierID, s.deliveryID, apperr.ErrStaleEvent)
	}
	return c, nil
}

// selectNext offers the delivery to the best ranked courier not offered yet.
// Caller holds s.mu.
func (e *Engine) selectNext(ctx context.Context, s *Session) {
	for {
		if e.checkCancelled(ctx, s) {
			return
		}
		idx := s.nextCandidate()
		if idx < 0 {
			e.exhaust(ctx, s, ReasonNoCouriers, true)
			return
		}

		c := s.candidates[idx]
		s.markNotified(c.CourierID)
		s.token++
		s.current = idx
		s.state = StateOffering

		if err := e.offer(ctx, s, c); err != nil {
			// the courier went away between snapshot and offer
			e.logger.Warn("offer send failed, advancing",
				logx.Int64("delivery_id", s.deliveryID),
				logx.Int64("courier_id", c.CourierID),
				logx.Err(err),
			)
			e.metrics.OfferResolved(OutcomeUndeliverable)
			s.current = -1
			continue
		}

		token := s.token
		s.timer = e.clock.AfterFunc(e.cfg.OfferTimeout, func() { e.onTimeout(s, token) })
		e.setStatus(ctx, s.deliveryID, domain.DeliveryOffered)
		e.recordOffer(ctx, s.deliveryID, c.CourierID)
		return
	}
}

func (e *Engine) offer(ctx context.Context, s *Session, c Candidate) error {
	ctx, span := e.tracer.Start(ctx, "dispatch.offer", trace.WithAttributes(
		attribute.Int64("delivery.id", s.deliveryID),
		attribute.Int64("courier.id", c.CourierID),
		attribute.Int64("dispatch.offer_token", int64(s.token)),
	))
	defer span.End()

	now := e.clock.Now()
	payload := OfferPayload{
		OfferID:          uuid.NewString(),
		DeliveryID:       s.deliveryID,
		Distance:         c.Distance,
		DistanceKm:       c.DistanceKm,
		ExpiresInSeconds: int(e.cfg.OfferTimeout / time.Second),
		ExpiresAt:        now.Add(e.cfg.OfferTimeout),
		Pickup:           toLocationPayload(s.delivery.Origin),
		Dropoff:          toLocationPayload(s.delivery.Destination),
	}
	if err := e.notifier.SendOffer(ctx, c.Handle, payload); err != nil {
		span.RecordError(err)
		return err
	}
	e.metrics.OfferSent()
	e.logger.Info("offer sent",
		logx.Int64("delivery_id", s.deliveryID),
		logx.Int64("courier_id", c.CourierID),
		logx.String("distance", c.Distance),
		logx.String("offer_id", payload.OfferID),
	)
	return nil
}

func (e *Engine) onTimeout(s *Session, token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.holder()
	if !ok || s.token != token {
		e.logger.Debug("stale offer timer ignored", logx.Int64("delivery_id", s.deliveryID))
		return
	}
	s.timer = nil
	s.current = -1
	e.metrics.OfferResolved(OutcomeExpired)
	e.logger.Info("offer expired",
		logx.Int64("delivery_id", s.deliveryID),
		logx.Int64("courier_id", c.CourierID),
	)
	e.selectNext(context.Background(), s)
}

// checkCancelled stops the session when the delivery was cancelled or vanished.
// Caller holds s.mu.
func (e *Engine) checkCancelled(ctx context.Context, s *Session) bool {
	if s.state.Terminal() {
		return true
	}
	if s.cancelled {
		e.finish(s, StateCancelled)
		return true
	}

	d, err := e.loadDelivery(ctx, s.deliveryID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		e.logger.Error("delivery disappeared, aborting dispatch", logx.Int64("delivery_id", s.deliveryID))
		e.exhaust(ctx, s, ReasonDeliveryNotFound, false)
		return true
	case err != nil:
		e.logger.Warn("delivery status check failed, continuing",
			logx.Int64("delivery_id", s.deliveryID),
			logx.Err(err),
		)
		return false
	case d.Status == domain.DeliveryCancelled:
		e.logger.Info("delivery cancelled, stopping dispatch", logx.Int64("delivery_id", s.deliveryID))
		s.cancelled = true
		e.finish(s, StateCancelled)
		return true
	}
	return false
}

// exhaust ends the session without a match. Caller holds s.mu.
func (e *Engine) exhaust(ctx context.Context, s *Session, reason string, persist bool) {
	s.current = -1
	if persist {
		opCtx, cancel := e.withTimeout(ctx)
		if err := e.store.MarkNoCouriersAvailable(opCtx, s.deliveryID); err != nil {
			e.logger.Error("mark no couriers available failed",
				logx.Int64("delivery_id", s.deliveryID),
				logx.Err(err),
			)
		}
		cancel()
	}
	if s.customerHandle != "" {
		if err := e.notifier.SendNoMatch(ctx, s.customerHandle, reason); err != nil {
			e.logger.Warn("no-match notification failed",
				logx.Int64("delivery_id", s.deliveryID),
				logx.Err(err),
			)
		}
	}
	e.broadcast(ctx, s.deliveryID, domain.DeliveryNoCouriersAvailable, map[string]any{"reason": reason})
	e.finish(s, StateExhausted)
}

func (e *Engine) finish(s *Session, state State) {
	s.stopTimer()
	s.current = -1
	s.state = state
	s.finishedAt = e.clock.Now()
	s.finished.Store(s.finishedAt.UnixNano())
	elapsed := s.finishedAt.Sub(s.startedAt)
	e.metrics.SessionFinished(state, elapsed)
	e.logger.Info("dispatch finished",
		logx.Int64("delivery_id", s.deliveryID),
		logx.String("state", string(state)),
		logx.Int("offers", len(s.notifiedOrder)),
		logx.Duration("elapsed", elapsed),
	)
}

func (e *Engine) loadDelivery(ctx context.Context, id int64) (*domain.Delivery, error) {
	opCtx, cancel := e.withTimeout(ctx)
	defer cancel()
	d, err := e.store.LoadDelivery(opCtx, id)
	if err != nil {
		return nil, fmt.Errorf("load delivery %d: %w", id, err)
	}
	if d == nil {
		return nil, fmt.Errorf("load delivery %d: %w", id, apperr.ErrNotFound)
	}
	return d, nil
}

func (e *Engine) setStatus(ctx context.Context, id int64, status domain.DeliveryStatus) {
	opCtx, cancel := e.withTimeout(ctx)
	defer cancel()
	if err := e.store.UpdateStatus(opCtx, id, status); err != nil {
		e.logger.Warn("delivery status update failed",
			logx.Int64("delivery_id", id),
			logx.String("status", string(status)),
			logx.Err(err),
		)
	}
}

func (e *Engine) broadcast(ctx context.Context, id int64, status domain.DeliveryStatus, extra map[string]any) {
	if err := e.notifier.BroadcastStatus(ctx, id, status, extra); err != nil {
		e.logger.Warn("status broadcast failed",
			logx.Int64("delivery_id", id),
			logx.String("status", string(status)),
			logx.Err(err),
		)
	}
}

func (e *Engine) recordOffer(ctx context.Context, deliveryID, courierID int64) {
	if e.journal == nil {
		return
	}
	opCtx, cancel := e.withTimeout(ctx)
	defer cancel()
	if err := e.journal.RecordOffer(opCtx, deliveryID, courierID, e.clock.Now()); err != nil {
		e.logger.Warn("offer journal write failed",
			logx.Int64("delivery_id", deliveryID),
			logx.Int64("courier_id", courierID),
			logx.Err(err),
		)
	}
}

type nopRecorder struct{}

func (nopRecorder) OfferSent()                          {}
func (nopRecorder) OfferResolved(string)                {}
func (nopRecorder) SessionFinished(State, time.Duration) {}
func (nopRecorder) Candidates(int)                      {}
