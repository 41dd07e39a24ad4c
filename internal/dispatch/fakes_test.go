package dispatch

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
)

type fakeTimer struct {
	clock    *fakeClock
	deadline time.Time
	fn       func()
	stopped  bool
	fired    bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, deadline: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs due timers in deadline order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.deadline.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	for _, t := range due {
		t.fn()
	}
}

func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Timer returns the i-th armed timer callback, fired or not.
func (c *fakeClock) Timer(i int) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers[i].fn
}

type fakeStore struct {
	mu         sync.Mutex
	deliveries map[int64]*domain.Delivery
	history    []domain.DeliveryStatus
	noCouriers []int64
	loadErr    error
	matchErr   error
}

func newFakeStore(ds ...domain.Delivery) *fakeStore {
	s := &fakeStore{deliveries: make(map[int64]*domain.Delivery)}
	for i := range ds {
		d := ds[i]
		s.deliveries[d.ID] = &d
	}
	return s
}

func (s *fakeStore) LoadDelivery(_ context.Context, id int64) (*domain.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	d, ok := s.deliveries[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id int64, status domain.DeliveryStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deliveries[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if d.Status == domain.DeliveryCancelled || d.Status == domain.DeliveryMatched {
		return nil
	}
	d.Status = status
	s.history = append(s.history, status)
	return nil
}

func (s *fakeStore) MarkMatched(_ context.Context, id, courierID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.matchErr != nil {
		return s.matchErr
	}
	d, ok := s.deliveries[id]
	if !ok {
		return apperr.ErrNotFound
	}
	d.Status = domain.DeliveryMatched
	d.CourierID = &courierID
	s.history = append(s.history, domain.DeliveryMatched)
	return nil
}

func (s *fakeStore) MarkNoCouriersAvailable(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noCouriers = append(s.noCouriers, id)
	d, ok := s.deliveries[id]
	if !ok {
		return apperr.ErrNotFound
	}
	d.Status = domain.DeliveryNoCouriersAvailable
	s.history = append(s.history, domain.DeliveryNoCouriersAvailable)
	return nil
}

func (s *fakeStore) MarkCancelled(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deliveries[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if d.Status == domain.DeliveryMatched {
		return apperr.ErrConflict
	}
	d.Status = domain.DeliveryCancelled
	s.history = append(s.history, domain.DeliveryCancelled)
	return nil
}

func (s *fakeStore) setStatus(id int64, status domain.DeliveryStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries[id].Status = status
}

func (s *fakeStore) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.deliveries, id)
}

func (s *fakeStore) get(id int64) domain.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.deliveries[id]
}

func (s *fakeStore) noCouriersCalls() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.noCouriers...)
}

type sentOffer struct {
	handle string
	offer  OfferPayload
}

type sentStatus struct {
	deliveryID int64
	status     domain.DeliveryStatus
	extra      map[string]any
}

type fakeNotifier struct {
	mu       sync.Mutex
	offers   []sentOffer
	noMatch  []string
	accepted []AcceptedPayload
	statuses []sentStatus
	failFor  map[string]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failFor: make(map[string]bool)}
}

var errGone = errors.New("connection gone")

func (n *fakeNotifier) SendOffer(_ context.Context, handle string, offer OfferPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failFor[handle] {
		return errGone
	}
	n.offers = append(n.offers, sentOffer{handle: handle, offer: offer})
	return nil
}

func (n *fakeNotifier) SendNoMatch(_ context.Context, handle string, reason string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.noMatch = append(n.noMatch, handle+": "+reason)
	return nil
}

func (n *fakeNotifier) SendAccepted(_ context.Context, _ string, payload AcceptedPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accepted = append(n.accepted, payload)
	return nil
}

func (n *fakeNotifier) BroadcastStatus(_ context.Context, deliveryID int64, status domain.DeliveryStatus, extra map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, sentStatus{deliveryID: deliveryID, status: status, extra: extra})
	return nil
}

func (n *fakeNotifier) offeredHandles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.offers))
	for _, o := range n.offers {
		out = append(out, o.handle)
	}
	return out
}

func (n *fakeNotifier) noMatchCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.noMatch)
}

func (n *fakeNotifier) broadcasted() []domain.DeliveryStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.DeliveryStatus, 0, len(n.statuses))
	for _, s := range n.statuses {
		out = append(out, s.status)
	}
	return out
}

type mapProfiles map[int64]domain.Courier

func (m mapProfiles) FindProfileByID(_ context.Context, id int64) (*domain.Courier, error) {
	c, ok := m[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &c, nil
}

type countingRecorder struct {
	mu       sync.Mutex
	sent     int
	resolved map[string]int
	finished map[State]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{resolved: map[string]int{}, finished: map[State]int{}}
}

func (r *countingRecorder) OfferSent() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent++
}

func (r *countingRecorder) OfferResolved(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved[outcome]++
}

func (r *countingRecorder) SessionFinished(state State, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished[state]++
}

func (r *countingRecorder) Candidates(int) {}
