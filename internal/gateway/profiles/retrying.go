// Package profiles wraps the courier profile store with retries for transient failures.
package profiles

import (
	"context"
	"errors"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

type finder interface {
	FindProfileByID(ctx context.Context, id int64) (*domain.Courier, error)
}

type counter interface {
	Inc()
}

// RetryConfig описывает поведение RetryingFinder
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingFinder retries profile lookups with exponential backoff.
type RetryingFinder struct {
	next    finder
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingFinder конструктор который проверяет, что next не nil и возвращает RetryingFinder
func NewRetryingFinder(next finder, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingFinder {
	if next == nil {
		return nil
	}
	if logger == nil {
		logger = logx.Nop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryingFinder{next: next, logger: logger, retries: retries, cfg: cfg}
}

// FindProfileByID returns the profile, retrying transient errors.
func (f *RetryingFinder) FindProfileByID(ctx context.Context, id int64) (*domain.Courier, error) {
	var lastErr error
	for attempt := 1; attempt <= f.cfg.MaxAttempts; attempt++ {
		c, err := f.next.FindProfileByID(ctx, id)
		if err == nil {
			return c, nil
		}
		lastErr = err
		// проверяем условия повтора
		if ctx.Err() != nil || attempt == f.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(f.cfg.BaseDelay, f.cfg.MaxDelay, attempt)
		if f.retries != nil {
			f.retries.Inc()
		}
		f.logger.Warn("profile lookup retry",
			logx.Int64("courier_id", id),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return nil, lastErr
}

// isRetryable определяет, является ли ошибка повторяемой
func isRetryable(err error) bool {
	switch {
	case errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrInvalid),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	default:
		return true
	}
}

// backoff вычисляет задержку повтора
func backoff(base, max time.Duration, attempt int) time.Duration {
	if attempt > 62 {
		return max
	}
	d := base << (attempt - 1)
	if d > max || d < base {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
