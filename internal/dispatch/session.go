package dispatch

import (
	"sync"
	"sync/atomic"
	"time"

	"courier-dispatch/internal/domain"
)

// State is the dispatch session state.
type State string

// Session states.
const (
	StateSearching State = "searching"
	StateOffering  State = "offering"
	StateAccepted  State = "accepted"
	StateExhausted State = "exhausted"
	StateCancelled State = "cancelled"
)

// Terminal reports whether no more offers can be issued.
func (s State) Terminal() bool {
	return s == StateAccepted || s == StateExhausted || s == StateCancelled
}

// Session holds dispatch progress for a single delivery.
// All fields except finished are guarded by mu.
type Session struct {
	mu sync.Mutex

	// finished is the UnixNano of finishedAt, zero while the session runs.
	// It is readable under Engine.mu without taking mu.
	finished atomic.Int64

	deliveryID     int64
	customerHandle string
	delivery       domain.Delivery
	candidates     []Candidate
	notified       map[int64]struct{}
	notifiedOrder  []int64
	current        int
	token          uint64
	timer          Timer
	state          State
	cancelled      bool
	matchedCourier int64
	startedAt      time.Time
	finishedAt     time.Time
}

// finishedTime reports when the session reached a terminal state.
func (s *Session) finishedTime() (time.Time, bool) {
	ns := s.finished.Load()
	if ns == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, ns).UTC(), true
}

func newSession(deliveryID int64, customerHandle string, startedAt time.Time) *Session {
	return &Session{
		deliveryID:     deliveryID,
		customerHandle: customerHandle,
		notified:       make(map[int64]struct{}),
		current:        -1,
		state:          StateSearching,
		startedAt:      startedAt,
	}
}

// nextCandidate returns the index of the best ranked courier not offered yet, or -1.
func (s *Session) nextCandidate() int {
	for i, c := range s.candidates {
		if _, ok := s.notified[c.CourierID]; !ok {
			return i
		}
	}
	return -1
}

func (s *Session) markNotified(courierID int64) {
	if _, ok := s.notified[courierID]; ok {
		return
	}
	s.notified[courierID] = struct{}{}
	s.notifiedOrder = append(s.notifiedOrder, courierID)
}

func (s *Session) holder() (Candidate, bool) {
	if s.state != StateOffering || s.current < 0 || s.current >= len(s.candidates) {
		return Candidate{}, false
	}
	return s.candidates[s.current], true
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// SessionInfo is a point-in-time copy of a session.
type SessionInfo struct {
	DeliveryID       int64
	State            State
	Candidates       []Candidate
	Notified         []int64
	CurrentCourierID int64
	MatchedCourierID int64
	OfferToken       uint64
	StartedAt        time.Time
	FinishedAt       time.Time
}

func (s *Session) info() SessionInfo {
	out := SessionInfo{
		DeliveryID:       s.deliveryID,
		State:            s.state,
		Candidates:       append([]Candidate(nil), s.candidates...),
		Notified:         append([]int64(nil), s.notifiedOrder...),
		MatchedCourierID: s.matchedCourier,
		OfferToken:       s.token,
		StartedAt:        s.startedAt,
		FinishedAt:       s.finishedAt,
	}
	if c, ok := s.holder(); ok {
		out.CurrentCourierID = c.CourierID
	}
	return out
}
