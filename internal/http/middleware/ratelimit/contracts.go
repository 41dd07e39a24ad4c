package ratelimit

import (
	"net/http"
	"time"
)

// Limiter decides whether a request identified by key may proceed.
// A denied call reports how long until the key gets a token back.
type Limiter interface {
	Allow(key string) (ok bool, retryAfter time.Duration)
}

// KeyFunc extracts the limiter key from a request.
type KeyFunc func(*http.Request) string
