package network

import (
	"sync"
	"time"

	"gatekv/internal/config"

	"github.com/bluele/gcache"
	"golang.org/x/time/rate"
)

const limiterTTL = time.Hour

// IPRateLimiter keeps a token bucket per client IP in an LRU cache, so the
// number of tracked clients stays bounded.
type IPRateLimiter struct {
	cache gcache.Cache
	mu    sync.Mutex
	limit rate.Limit
	burst int
}

func NewIPRateLimiter(conf *config.RateLimitConfig) *IPRateLimiter {
	cacheSize := conf.CacheSize
	if cacheSize <= 0 {
		cacheSize = 1000
	}

	return &IPRateLimiter{
		cache: gcache.New(cacheSize).LRU().Build(),
		limit: rate.Limit(conf.RequestsPerSecond),
		burst: conf.Burst,
	}
}

func (l *IPRateLimiter) Allow(ip string) bool {
	return l.limiter(ip).Allow()
}

func (l *IPRateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, err := l.cache.Get(ip); err == nil {
		return cached.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	_ = l.cache.SetWithExpire(ip, limiter, limiterTTL)

	return limiter
}
