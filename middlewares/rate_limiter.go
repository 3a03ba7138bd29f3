package middlewares

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/junkeats-app/utils"
	"golang.org/x/time/rate"
)

var errTooManyRequests = errors.New("Too many requests, please wait a moment and try again.")

// RateLimiter is a sliding window limiter keyed by client IP. IPs with no
// request inside the window are dropped once per window.
type RateLimiter struct {
	rate      int
	interval  time.Duration
	ips       map[string][]time.Time
	lastSweep time.Time
	mu        sync.Mutex
}

func NewRateLimiter(rate int, interval int) *RateLimiter {
	return &RateLimiter{
		rate:     rate,
		interval: time.Duration(interval) * time.Second,
		ips:      make(map[string][]time.Time),
	}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			utils.RespondError(c, http.StatusTooManyRequests, errTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.interval)
	if now.Sub(rl.lastSweep) >= rl.interval {
		for key, hits := range rl.ips {
			if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
				delete(rl.ips, key)
			}
		}
		rl.lastSweep = now
	}

	valid := rl.ips[ip][:0]
	for _, t := range rl.ips[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.rate {
		rl.ips[ip] = valid
		return false
	}
	rl.ips[ip] = append(valid, now)
	return true
}

// IPRateLimiter hands every client IP its own token bucket. Buckets idle
// long enough to have refilled are forgotten.
type IPRateLimiter struct {
	limit     rate.Limit
	burst     int
	idle      time.Duration
	limiters  map[string]*ipLimiter
	lastSweep time.Time
	mu        sync.Mutex
}

type ipLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	idle := time.Minute
	if limit > 0 {
		if fill := time.Duration(float64(burst) / float64(limit) * float64(time.Second)); fill > idle {
			idle = fill
		}
	}
	return &IPRateLimiter{
		limit:    limit,
		burst:    burst,
		idle:     idle,
		limiters: make(map[string]*ipLimiter),
	}
}

// PerMinute builds a limiter allowing n requests per minute per IP.
func PerMinute(n int) *IPRateLimiter {
	if n <= 0 {
		n = 1
	}
	return NewIPRateLimiter(rate.Every(time.Minute/time.Duration(n)), n)
}

func (l *IPRateLimiter) limiter(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.idle {
		for key, entry := range l.limiters {
			if now.Sub(entry.seen) >= l.idle {
				delete(l.limiters, key)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{lim: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.seen = now
	return entry.lim
}

func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.limiter(c.ClientIP(), time.Now()).Allow() {
			utils.RespondError(c, http.StatusTooManyRequests, errTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
