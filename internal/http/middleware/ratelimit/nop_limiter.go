package ratelimit

import "time"

// NopLimiter lets every request through
type NopLimiter struct{}

// Allow always returns true
func (NopLimiter) Allow(string) (bool, time.Duration) { return true, 0 }
