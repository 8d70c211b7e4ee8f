// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/projectdesk/projectdesk/pkg/cache"
	"github.com/projectdesk/projectdesk/pkg/logger"
	"github.com/projectdesk/projectdesk/pkg/response"
)

const rateKeyPrefix = "ratelimit:"

// window is one client's fixed-window hit count.
type window struct {
	hits    int64
	resetAt time.Time
}

// limiter counts requests per client IP. Counts live in Redis when the
// cache is connected, so every replica shares them; otherwise in memory.
type limiter struct {
	max    int64
	period time.Duration

	mu      sync.Mutex
	windows map[string]*window
	sweepAt time.Time
}

func newLimiter(max int, period time.Duration) *limiter {
	return &limiter{
		max:     int64(max),
		period:  period,
		windows: make(map[string]*window),
		sweepAt: time.Now().Add(period),
	}
}

// allow records a hit for ip and reports whether it is within the limit.
func (l *limiter) allow(ctx context.Context, ip string) bool {
	if cache.Enabled() {
		hits, err := l.hitRedis(ctx, ip)
		if err == nil {
			return hits <= l.max
		}
		logger.Warn("rate limit: redis unavailable, counting in memory", "error", err)
	}
	return l.hitMemory(ip, time.Now()) <= l.max
}

func (l *limiter) hitRedis(ctx context.Context, ip string) (int64, error) {
	key := rateKeyPrefix + ip
	hits, err := cache.RDB.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if hits == 1 {
		if err := cache.RDB.Expire(ctx, key, l.period).Err(); err != nil {
			return 0, err
		}
	}
	return hits, nil
}

func (l *limiter) hitMemory(ip string, now time.Time) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.sweepAt) {
		for k, w := range l.windows {
			if now.After(w.resetAt) {
				delete(l.windows, k)
			}
		}
		l.sweepAt = now.Add(l.period)
	}

	w, ok := l.windows[ip]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.windows[ip] = w
	}
	w.hits++
	return w.hits
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimit returns a middleware that limits each IP to max requests per
// period. A max of zero or less disables limiting.
//
//	middleware.RateLimit(cfg.App.RateLimit, time.Minute)
func RateLimit(max int, period time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if max <= 0 {
			return next
		}
		l := newLimiter(max, period)
		retryAfter := strconv.Itoa(int(period.Seconds()))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(r.Context(), clientIP(r)) {
				w.Header().Set("Retry-After", retryAfter)
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
