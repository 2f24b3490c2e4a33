// Package ratelimit implements sliding-window admission control for write
// endpoints. State is process-wide and in-memory: buckets reset on restart,
// which is an accepted limitation for single-process deployments.
package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"
)

// bucket holds the admission timestamps for a single key with its own lock,
// so checks on different keys never contend.
type bucket struct {
	mu       sync.Mutex
	admitted []time.Time
	lastUsed atomic.Int64 // unix seconds, read by the janitor
}

// Limiter admits at most N events per key per rolling window. Keys are
// usually "action:clientIdentity" strings derived by the HTTP layer.
type Limiter struct {
	buckets sync.Map // map[string]*bucket

	stop chan struct{}
	once sync.Once

	// now is swappable for tests.
	now func() time.Time
}

// NewLimiter creates a limiter and starts its background janitor, which
// evicts buckets that have been idle longer than maxIdle.
func NewLimiter(maxIdle time.Duration) *Limiter {
	l := &Limiter{
		stop: make(chan struct{}),
		now:  time.Now,
	}
	go l.janitor(maxIdle)
	return l
}

// Allow reports whether a new event under key is admissible given a budget of
// limit events per window. On admission the event is recorded; on rejection
// the bucket is left unchanged.
func (l *Limiter) Allow(key string, limit int, window time.Duration) bool {
	now := l.now()
	cutoff := now.Add(-window)

	val, _ := l.buckets.LoadOrStore(key, &bucket{})
	b := val.(*bucket)
	b.lastUsed.Store(now.Unix())

	b.mu.Lock()
	defer b.mu.Unlock()

	// Timestamps are appended in order, so expired entries are a prefix.
	i := 0
	for i < len(b.admitted) && !b.admitted[i].After(cutoff) {
		i++
	}
	if i > 0 {
		b.admitted = append(b.admitted[:0], b.admitted[i:]...)
	}

	if len(b.admitted) >= limit {
		return false
	}

	b.admitted = append(b.admitted, now)
	return true
}

// Stop terminates the janitor goroutine.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) janitor(maxIdle time.Duration) {
	interval := maxIdle
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			threshold := l.now().Add(-maxIdle).Unix()
			var stale []string
			l.buckets.Range(func(key, val any) bool {
				if val.(*bucket).lastUsed.Load() < threshold {
					stale = append(stale, key.(string))
				}
				return true
			})
			for _, key := range stale {
				l.buckets.Delete(key)
			}
		}
	}
}
