package worker

import (
	"context"
	"net"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long an unused key keeps its bucket
const DefaultIdleTTL = 10 * time.Minute

// Limiter is a token bucket per key (client address, batch run, ...). Buckets
// of keys that stay idle for the TTL are dropped.
type Limiter struct {
	buckets      *gocache.Cache
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new keyed rate limiter. A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	return newLimiter(requestsPerSecond, burst, DefaultIdleTTL)
}

func newLimiter(requestsPerSecond float64, burst int, idleTTL time.Duration) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		buckets:      gocache.New(idleTTL, idleTTL/2),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until key may proceed or ctx is done
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.getLimiter(key).Wait(ctx)
}

// Allow reports whether key may proceed now, consuming a token if so
func (l *Limiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

// getLimiter returns the bucket of key and restarts its idle timer
func (l *Limiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if val, found := l.buckets.Get(key); found {
		if limiter, ok := val.(*rate.Limiter); ok {
			l.buckets.SetDefault(key, limiter)
			return limiter
		}
	}

	limiter := rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.buckets.SetDefault(key, limiter)
	return limiter
}

// KeyForRemoteAddr reduces a host:port remote address to its host
func KeyForRemoteAddr(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
