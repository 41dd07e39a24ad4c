package dispatch

import (
	"context"
	"errors"
	"sort"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/geo"
	"courier-dispatch/internal/logx"
)

type presenceSource interface {
	Snapshot(capability string, maxResults int) []domain.Presence
}

// Selector ranks online couriers around a pickup point.
type Selector struct {
	presence      presenceSource
	profiles      ProfileFinder
	logger        logx.Logger
	maxCandidates int
}

// NewSelector creates a Selector. maxCandidates <= 0 keeps every qualifying courier.
func NewSelector(presence presenceSource, profiles ProfileFinder, logger logx.Logger, maxCandidates int) *Selector {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Selector{
		presence:      presence,
		profiles:      profiles,
		logger:        logger,
		maxCandidates: maxCandidates,
	}
}

// FindNearby returns couriers within maxDistanceKm ordered by distance.
// Equal distances keep registry insertion order. The result is never nil.
func (s *Selector) FindNearby(ctx context.Context, origin domain.Location, maxDistanceKm float64, capability string) []Candidate {
	if maxDistanceKm < 0 {
		return []Candidate{}
	}

	snapshot := s.presence.Snapshot(capability, 0)
	ranked := make([]Candidate, 0, len(snapshot))
	for _, p := range snapshot {
		d := geo.Between(origin, p.Location)
		if d > maxDistanceKm {
			continue
		}
		ranked = append(ranked, Candidate{
			CourierID:  p.CourierID,
			Handle:     p.Handle,
			Location:   p.Location,
			DistanceKm: d,
			Distance:   geo.FormatKm(d),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	seen := make(map[int64]struct{}, len(ranked))
	out := make([]Candidate, 0, len(ranked))
	for _, c := range ranked {
		if _, dup := seen[c.CourierID]; dup {
			continue
		}
		seen[c.CourierID] = struct{}{}

		profile, ok := s.resolveProfile(ctx, c.CourierID)
		if !ok {
			continue
		}
		c.Profile = profile
		out = append(out, c)
		if s.maxCandidates > 0 && len(out) == s.maxCandidates {
			break
		}
	}
	return out
}

// resolveProfile returns the profile when the courier may receive offers.
func (s *Selector) resolveProfile(ctx context.Context, courierID int64) (domain.Courier, bool) {
	profile, err := s.profiles.FindProfileByID(ctx, courierID)
	switch {
	case errors.Is(err, apperr.ErrNotFound), err == nil && profile == nil:
		s.logger.Warn("courier profile not found, skipping candidate",
			logx.Int64("courier_id", courierID),
		)
		return domain.Courier{}, false
	case err != nil:
		s.logger.Warn("courier profile lookup failed, skipping candidate",
			logx.Int64("courier_id", courierID),
			logx.Err(err),
		)
		return domain.Courier{}, false
	case !profile.Available():
		s.logger.Debug("courier profile unavailable, skipping candidate",
			logx.Int64("courier_id", courierID),
			logx.String("status", string(profile.Status)),
		)
		return domain.Courier{}, false
	}
	return *profile, true
}
