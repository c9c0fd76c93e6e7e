package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"filmorate/internal/metrics"

	"golang.org/x/time/rate"
)

// staleAfter время, после которого лимитер неактивного клиента удаляется.
const staleAfter = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов с одного IP.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	rate      rate.Limit
	burst     int
	lastPrune time.Time
	now       func() time.Time
	logger    *slog.Logger
}

// NewRateLimiter создает лимитер: rps запросов в секунду с запасом burst.
func NewRateLimiter(rps float64, burst int, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
		logger:   logger,
	}
}

// Allow сообщает, можно ли обслужить запрос клиента key.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) > staleAfter {
		for k, e := range rl.limiters {
			if now.Sub(e.lastSeen) > staleAfter {
				delete(rl.limiters, k)
			}
		}
		rl.lastPrune = now
	}

	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// Middleware отвечает 429, если клиент превысил лимит.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if !rl.Allow(key) {
			metrics.RateLimitedTotal.Inc()
			rl.logger.WarnContext(r.Context(), "Rate limit exceeded", slog.String("client", key), slog.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
