package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SlidingWindow implements an in-memory sliding window rate limiter. It
// serves as a fallback when Redis is unavailable; counts are per process.
type SlidingWindow struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration
	done    chan struct{}
	once    sync.Once
}

// NewSlidingWindow creates an in-memory limiter enforcing requestsPerMinute
// per key
func NewSlidingWindow(requestsPerMinute int) *SlidingWindow {
	sw := &SlidingWindow{
		windows: make(map[string][]time.Time),
		limit:   requestsPerMinute,
		window:  time.Minute,
		done:    make(chan struct{}),
	}
	go sw.cleanupRoutine()
	return sw
}

// Check records the request and reports whether the key is over its limit
func (sw *SlidingWindow) Check(_ context.Context, key string) (*LimitResult, error) {
	now := time.Now()
	cutoff := now.Add(-sw.window)

	sw.mu.Lock()
	defer sw.mu.Unlock()

	requests := sw.windows[key]
	kept := requests[:0]
	for _, t := range requests {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	allowed := len(kept) < sw.limit
	if allowed {
		kept = append(kept, now)
	}
	sw.windows[key] = kept

	resetTime := now.Add(sw.window)
	if len(kept) > 0 {
		resetTime = kept[0].Add(sw.window)
	}
	retryAfter := time.Duration(0)
	if !allowed {
		retryAfter = time.Until(resetTime)
		if retryAfter < 0 {
			retryAfter = 0
		}
	}

	remaining := sw.limit - len(kept)
	if remaining < 0 {
		remaining = 0
	}

	return &LimitResult{
		Allowed:    allowed,
		Count:      len(kept),
		Limit:      sw.limit,
		Remaining:  remaining,
		RetryAfter: retryAfter,
		ResetTime:  resetTime,
	}, nil
}

// Close stops the background cleanup
func (sw *SlidingWindow) Close() {
	sw.once.Do(func() { close(sw.done) })
}

// cleanupRoutine drops idle keys so the map does not grow unbounded
func (sw *SlidingWindow) cleanupRoutine() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-sw.window)
			sw.mu.Lock()
			for key, requests := range sw.windows {
				if len(requests) == 0 || !requests[len(requests)-1].After(cutoff) {
					delete(sw.windows, key)
				}
			}
			sw.mu.Unlock()
		case <-sw.done:
			return
		}
	}
}
