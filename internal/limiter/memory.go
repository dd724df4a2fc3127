package limiter

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// MemoryLimiter is a per-key token bucket refilling requests tokens per
// window. Idle keys are evicted after one window, least recently used keys
// once size is reached.
type MemoryLimiter struct {
	mu       sync.Mutex
	buckets  *expirable.LRU[string, *rate.Limiter]
	limit    rate.Limit
	requests int

	now func() time.Time
}

// NewMemoryLimiter constructs a [MemoryLimiter].
func NewMemoryLimiter(requests int, window time.Duration, size int) *MemoryLimiter {
	return &MemoryLimiter{
		buckets:  expirable.NewLRU[string, *rate.Limiter](size, nil, window),
		limit:    rate.Limit(float64(requests) / window.Seconds()),
		requests: requests,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets.Get(key)
	if !ok {
		b = rate.NewLimiter(l.limit, l.requests)
		l.buckets.Add(key, b)
	}
	return b
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	b := l.bucket(key)
	now := l.now()

	d := Decision{Allowed: true, Limit: l.requests}
	r := b.ReserveN(now, 1)
	if delay := r.DelayFrom(now); !r.OK() || delay > 0 {
		r.CancelAt(now)
		d.Allowed = false
		d.RetryAfter = delay
	}

	d.Remaining = max(0, int(b.TokensAt(now)))
	return d, nil
}
