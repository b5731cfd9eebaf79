package intervals

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// intervals.icu does not publish fixed quotas; it answers 429 with a
// Retry-After header when a client is too fast.

// DefaultRetryAfter is used when a 429 carries no usable Retry-After
const DefaultRetryAfter = 5 * time.Second

// RateLimiter throttles requests client-side and honours Retry-After
type RateLimiter struct {
	limiter *rate.Limiter

	mu          sync.Mutex
	pausedUntil time.Time
	requests    int
	throttled   int
}

// NewRateLimiter creates a limiter allowing perSecond requests with the given burst
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Wait blocks until a request can be made
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	pause := time.Until(r.pausedUntil)
	r.mu.Unlock()

	if pause > 0 {
		select {
		case <-time.After(pause):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	r.requests++
	r.mu.Unlock()
	return nil
}

// UpdateFromResponse pauses the limiter when the server answered 429.
// It returns the pause applied (0 when the response was not throttled).
func (r *RateLimiter) UpdateFromResponse(statusCode int, h http.Header) time.Duration {
	if statusCode != http.StatusTooManyRequests {
		return 0
	}

	wait := parseRetryAfter(h.Get("Retry-After"))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.throttled++
	if until := time.Now().Add(wait); until.After(r.pausedUntil) {
		r.pausedUntil = until
	}
	return wait
}

// Status returns the number of requests made and 429s received
func (r *RateLimiter) Status() (requests, throttled int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests, r.throttled
}

// parseRetryAfter accepts both delay-seconds and HTTP-date forms
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return DefaultRetryAfter
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return DefaultRetryAfter
}
