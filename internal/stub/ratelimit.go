package stub

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/nvdmirror/pkg/api"
)

// RateLimiter считает запросы каждого клиента в фиксированных окнах,
// как это делает NVD (50 запросов за 30 секунд с ключом, 5 без ключа)
type RateLimiter struct {
	windows map[string]*window
	logger  *slog.Logger
	now     func() time.Time
	done    chan struct{}
	limit   int
	period  time.Duration
	mu      sync.Mutex
}

// window - счетчик запросов клиента в текущем окне
type window struct {
	start time.Time
	count int
}

// NewRateLimiter allows limit requests per period and key
func NewRateLimiter(limit int, period time.Duration, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		logger:  logger,
		now:     time.Now,
		done:    make(chan struct{}),
		limit:   limit,
		period:  period,
	}

	go rl.evictLoop()

	return rl
}

// evictLoop удаляет окна клиентов, не приходивших дольше двух периодов
func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(rl.period * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evict()
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimiter) evict() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-2 * rl.period)
	for key, w := range rl.windows {
		if w.start.Before(cutoff) {
			delete(rl.windows, key)
		}
	}
}

// Stop останавливает фоновую очистку
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

// Allow records a request from key and reports whether it fits the current
// window. When it does not, retryAfter is the time left until the window resets.
func (rl *RateLimiter) Allow(key string) (ok bool, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, exists := rl.windows[key]
	if !exists || now.Sub(w.start) >= rl.period {
		w = &window{start: now}
		rl.windows[key] = w
	}

	if w.count >= rl.limit {
		return false, w.start.Add(rl.period).Sub(now)
	}
	w.count++
	return true, 0
}

// Middleware rejects requests over the limit with 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		ok, retryAfter := rl.Allow(key)
		if !ok {
			rl.logger.Warn("Rate limit exceeded",
				"client", redactKey(key),
				"path", r.URL.Path,
				"retry_after", retryAfter)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey limits by API key when one is sent, otherwise by client IP
func clientKey(r *http.Request) string {
	if key := r.Header.Get(api.HeaderAPIKey); key != "" {
		return "key:" + key
	}
	return "ip:" + clientIP(r)
}

// clientIP извлекает IP адрес клиента с учетом прокси
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func redactKey(key string) string {
	if strings.HasPrefix(key, "key:") {
		return "key:***"
	}
	return key
}
