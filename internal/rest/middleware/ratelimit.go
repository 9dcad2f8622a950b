package middleware

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taktakmenu/platform/internal/config"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/types"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = 5 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	limit    rate.Limit
	burst    int
	perMin   int
}

func NewRateLimiter(cfg *config.Configuration) *RateLimiter {
	perMin := cfg.RateLimit.RequestsPerMinute
	if perMin <= 0 {
		perMin = 100
	}
	burst := cfg.RateLimit.Burst
	if burst <= 0 {
		burst = perMin
	}
	return &RateLimiter{
		limiters: make(map[string]*ipLimiter),
		limit:    rate.Limit(float64(perMin) / 60.0),
		burst:    burst,
		perMin:   perMin,
	}
}

func (l *RateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// Sweep drops limiters idle for longer than limiterIdleTTL
func (l *RateLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, entry := range l.limiters {
		if time.Since(entry.lastSeen) > limiterIdleTTL {
			delete(l.limiters, ip)
		}
	}
}

// Run sweeps idle limiters until ctx is done
func (l *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-ctx.Done():
			return
		}
	}
}

// Middleware rejects requests over the per-IP budget with 429 and Retry-After
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := l.get(c.ClientIP())
		c.Header(types.HeaderRateLimitLimit, strconv.Itoa(l.perMin))

		reservation := limiter.Reserve()
		if d := reservation.Delay(); d > 0 {
			reservation.Cancel()
			retryAfter := int(math.Ceil(d.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header(types.HeaderRetryAfter, strconv.Itoa(retryAfter))
			c.Header(types.HeaderRateLimitRemaining, "0")
			_ = c.Error(ierr.NewError("rate limit exceeded").
				WithHintf("Too many requests, retry in %d seconds", retryAfter).
				Mark(ierr.ErrTooManyRequests))
			c.Abort()
			return
		}

		c.Header(types.HeaderRateLimitRemaining, strconv.Itoa(int(limiter.Tokens())))
		c.Next()
	}
}
