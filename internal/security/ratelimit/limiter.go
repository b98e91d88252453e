package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window rate limiter keyed by mandant. Anonymous
// traffic (empty key) is never limited; the public read endpoints stay
// open regardless of tenant budgets.
type Limiter struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
	maxReqs int
	window  time.Duration
	cleanup *time.Ticker
	done    chan struct{}
}

type bucket struct {
	requests []time.Time
	lastSeen time.Time
}

func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	limiter := &Limiter{
		buckets: make(map[string]*bucket),
		maxReqs: maxRequests,
		window:  window,
		cleanup: time.NewTicker(5 * time.Minute),
		done:    make(chan struct{}),
	}
	go limiter.cleanupOldBuckets()
	return limiter
}

func (l *Limiter) Allow(mandantUUID string) bool {
	if mandantUUID == "" {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, exists := l.buckets[mandantUUID]
	if !exists {
		b = &bucket{requests: []time.Time{}}
		l.buckets[mandantUUID] = b
	}

	cutoff := now.Add(-l.window)
	var reqs []time.Time
	for _, t := range b.requests {
		if t.After(cutoff) {
			reqs = append(reqs, t)
		}
	}
	b.requests = reqs
	b.lastSeen = now

	if len(b.requests) >= l.maxReqs {
		return false
	}

	b.requests = append(b.requests, now)
	return true
}

func (l *Limiter) cleanupOldBuckets() {
	for {
		select {
		case <-l.done:
			return
		case <-l.cleanup.C:
			l.mu.Lock()
			now := time.Now()
			staleThreshold := now.Add(-15 * time.Minute)
			for mandantUUID, b := range l.buckets {
				if b.lastSeen.Before(staleThreshold) {
					delete(l.buckets, mandantUUID)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Stop halts the cleanup goroutine. A stopped ticker never closes its
// channel, so the goroutine exits through done instead.
func (l *Limiter) Stop() {
	l.cleanup.Stop()
	close(l.done)
}
