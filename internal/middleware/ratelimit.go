// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/templates/course-gate/internal/core"
)

const clientKeyPrefix = "ratelimit:client:"

type RateLimitConfig struct {
	Limit    redis_rate.Limit
	KeyFunc  func(*http.Request) string
	FailOpen bool
	// Bypass lists path prefixes that are never counted, such as probes.
	Bypass []string
}

// counter is one place request budgets can be kept.
type counter interface {
	allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimiter counts in redis when a client is given and in process
// otherwise. A redis failure falls back to the in-process counters.
type RateLimiter struct {
	shared counter
	local  *localCounter
	config RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientKey
	}

	rl := &RateLimiter{
		local:  newLocalCounter(),
		config: cfg,
	}
	if rdb != nil {
		rl.shared = redisCounter{redis_rate.NewLimiter(rdb)}
	}

	return rl
}

// Close stops the sweep of idle in-process buckets.
func (rl *RateLimiter) Close() {
	rl.local.stop()
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.bypassed(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.config.KeyFunc(r)
		res, err := rl.allow(r.Context(), key)
		if err != nil {
			if rl.config.FailOpen {
				slog.WarnContext(r.Context(), "rate limiter error, failing open",
					"error", err,
					"key", key,
				)
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}

		setRateLimitHeaders(w, res, rl.config.Limit)

		if res.Allowed == 0 {
			retryAfter := max(int(res.RetryAfter.Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			core.JSONError(w, core.RateLimitedError(retryAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) bypassed(path string) bool {
	for _, prefix := range rl.config.Bypass {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
) (*redis_rate.Result, error) {
	if rl.shared != nil {
		res, err := rl.shared.allow(ctx, key, rl.config.Limit)
		if err == nil {
			return res, nil
		}
		slog.DebugContext(ctx, "shared rate limit unavailable, counting locally",
			"error", err,
		)
	}
	return rl.local.allow(ctx, key, rl.config.Limit)
}

// ClientKey identifies the caller by the nearest proxy-reported address,
// then the socket peer.
func ClientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return clientKeyPrefix + strings.TrimSpace(ips[len(ips)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return clientKeyPrefix + xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return clientKeyPrefix + ip
}

func setRateLimitHeaders(
	w http.ResponseWriter,
	res *redis_rate.Result,
	limit redis_rate.Limit,
) {
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(
		time.Now().Add(res.ResetAfter).Unix(), 10))

	h.Set("RateLimit-Policy",
		fmt.Sprintf(`%d;w=%d`, limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit",
		fmt.Sprintf(`%d;t=%d`, res.Remaining, int(res.ResetAfter.Seconds())))
}

type redisCounter struct {
	limiter *redis_rate.Limiter
}

func (c redisCounter) allow(
	ctx context.Context,
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	return c.limiter.Allow(ctx, key, limit)
}

const (
	sweepInterval = 5 * time.Minute
	bucketTTL     = 10 * time.Minute
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localCounter keeps one token bucket per key in process memory.
type localCounter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	done    chan struct{}
	once    sync.Once
}

func newLocalCounter() *localCounter {
	c := &localCounter{
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *localCounter) stop() {
	c.once.Do(func() { close(c.done) })
}

func (c *localCounter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case now := <-ticker.C:
			c.evictIdle(now.Add(-bucketTTL))
		}
	}
}

func (c *localCounter) evictIdle(cutoff time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, b := range c.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(c.buckets, key)
		}
	}
}

func (c *localCounter) allow(
	_ context.Context,
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	perSecond := float64(limit.Rate) / limit.Period.Seconds()
	refill := time.Duration(float64(time.Second) / perSecond)

	c.mu.Lock()
	b, ok := c.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(perSecond), limit.Burst)}
		c.buckets[key] = b
	}
	b.lastSeen = time.Now()
	allowed := b.limiter.Allow()
	remaining := max(int(b.limiter.Tokens()), 0)
	c.mu.Unlock()

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  remaining,
		RetryAfter: -1,
		ResetAfter: refill,
	}
	if allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = refill
	}
	return res, nil
}

// PerWindow allows requests per window with the given burst. A
// non-positive window means one minute.
func PerWindow(requests, burst int, window time.Duration) redis_rate.Limit {
	if window <= 0 {
		window = time.Minute
	}
	return redis_rate.Limit{
		Rate:   requests,
		Burst:  burst,
		Period: window,
	}
}
