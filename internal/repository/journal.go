package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultJournalTTL = 24 * time.Hour

// OfferRecord is one journaled offer.
type OfferRecord struct {
	CourierID int64     `json:"courier_id"`
	At        time.Time `json:"at"`
}

// RedisJournal keeps an audit trail of offers per delivery:
// dispatch:{id}:notified is the set of offered couriers,
// dispatch:{id}:offers the ordered offer log.
type RedisJournal struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisJournal creates a journal whose keys expire after ttl.
func NewRedisJournal(client redis.Cmdable, ttl time.Duration) *RedisJournal {
	if ttl <= 0 {
		ttl = defaultJournalTTL
	}
	return &RedisJournal{client: client, ttl: ttl}
}

func notifiedKey(deliveryID int64) string { return fmt.Sprintf("dispatch:%d:notified", deliveryID) }
func offersKey(deliveryID int64) string   { return fmt.Sprintf("dispatch:%d:offers", deliveryID) }

// RecordOffer appends the offer to the journal.
func (j *RedisJournal) RecordOffer(ctx context.Context, deliveryID, courierID int64, at time.Time) error {
	entry, err := json.Marshal(OfferRecord{CourierID: courierID, At: at.UTC()})
	if err != nil {
		return fmt.Errorf("marshal offer record: %w", err)
	}
	_, err = j.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SAdd(ctx, notifiedKey(deliveryID), courierID)
		p.RPush(ctx, offersKey(deliveryID), entry)
		p.Expire(ctx, notifiedKey(deliveryID), j.ttl)
		p.Expire(ctx, offersKey(deliveryID), j.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis record offer: %w", err)
	}
	return nil
}

// Notified returns the couriers ever offered the delivery, sorted by id.
func (j *RedisJournal) Notified(ctx context.Context, deliveryID int64) ([]int64, error) {
	members, err := j.client.SMembers(ctx, notifiedKey(deliveryID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers: %w", err)
	}
	out := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse courier id %q: %w", m, err)
		}
		out = append(out, id)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out, nil
}

// Offers returns the offer log in the order offers were made.
func (j *RedisJournal) Offers(ctx context.Context, deliveryID int64) ([]OfferRecord, error) {
	raw, err := j.client.LRange(ctx, offersKey(deliveryID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	out := make([]OfferRecord, 0, len(raw))
	for _, r := range raw {
		var rec OfferRecord
		if err := json.Unmarshal([]byte(r), &rec); err != nil {
			return nil, fmt.Errorf("decode offer record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}
