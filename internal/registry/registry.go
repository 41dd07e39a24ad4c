// Package registry keeps the in-memory presence of online couriers.
package registry

import (
	"sort"
	"sync"
	"time"

	"courier-dispatch/internal/domain"
)

// Registry is a concurrency-safe index of online couriers keyed by courier id.
// Records are returned as copies; callers never share state with the registry.
type Registry struct {
	mu      sync.RWMutex
	records map[int64]*domain.Presence
	seq     uint64
	now     func() time.Time
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		records: make(map[int64]*domain.Presence),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Upsert inserts or replaces the presence of a courier.
// Replacing keeps the original insertion order.
func (r *Registry) Upsert(courierID int64, handle string, loc domain.Location, capabilities []string, available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	caps := append([]string(nil), capabilities...)
	if p, ok := r.records[courierID]; ok {
		p.Handle = handle
		p.Location = loc
		p.Capabilities = caps
		p.Available = available
		p.UpdatedAt = r.now()
		return
	}
	r.seq++
	r.records[courierID] = &domain.Presence{
		CourierID:    courierID,
		Handle:       handle,
		Location:     loc,
		Capabilities: caps,
		Available:    available,
		Seq:          r.seq,
		UpdatedAt:    r.now(),
	}
}

// Remove deletes the courier presence; absent couriers are ignored.
func (r *Registry) Remove(courierID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, courierID)
}

// Detach removes the courier only while the record still belongs to handle.
// It returns true when a record was removed.
func (r *Registry) Detach(courierID int64, handle string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[courierID]
	if !ok || p.Handle != handle {
		return false
	}
	delete(r.records, courierID)
	return true
}

// SetAvailability flips the availability flag; absent couriers are ignored.
func (r *Registry) SetAvailability(courierID int64, available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.records[courierID]; ok {
		p.Available = available
		p.UpdatedAt = r.now()
	}
}

// UpdateLocation stores the last known location; it returns false for unknown couriers.
func (r *Registry) UpdateLocation(courierID int64, loc domain.Location) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[courierID]
	if !ok {
		return false
	}
	p.Location = loc
	p.UpdatedAt = r.now()
	return true
}

// Get returns a copy of the courier presence.
func (r *Registry) Get(courierID int64) (domain.Presence, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.records[courierID]
	if !ok {
		return domain.Presence{}, false
	}
	return clone(p), true
}

// Len returns the number of online couriers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Snapshot returns available couriers serving capability in insertion order.
// maxResults <= 0 means no limit.
func (r *Registry) Snapshot(capability string, maxResults int) []domain.Presence {
	r.mu.RLock()
	out := make([]domain.Presence, 0, len(r.records))
	for _, p := range r.records {
		if !p.Available || !p.Serves(capability) {
			continue
		}
		out = append(out, clone(p))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

// All returns every record regardless of availability, in insertion order.
func (r *Registry) All() []domain.Presence {
	r.mu.RLock()
	out := make([]domain.Presence, 0, len(r.records))
	for _, p := range r.records {
		out = append(out, clone(p))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

func clone(p *domain.Presence) domain.Presence {
	cp := *p
	cp.Capabilities = append([]string(nil), p.Capabilities...)
	return cp
}
