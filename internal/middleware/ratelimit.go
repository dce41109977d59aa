package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/iReady/iReady-Backend/internal/metrics"
	"github.com/iReady/iReady-Backend/internal/utils"
)

const (
	// idleLimiterTTL is how long an unused client limiter is kept.
	idleLimiterTTL = 10 * time.Minute
	sweepInterval  = time.Minute

	// DefaultMaxClients caps the number of tracked client limiters.
	DefaultMaxClients = 10000
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client address.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time

	// MaxClients bounds the map; the least recently seen client is dropped
	// to make room for a new one.
	MaxClients int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients:    make(map[string]*clientLimiter),
		limit:      rate.Limit(rps),
		burst:      burst,
		now:        time.Now,
		MaxClients: DefaultMaxClients,
	}
}

// Allow reports whether the client may make a request now.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, ok := rl.clients[client]
	if !ok {
		if now.Sub(rl.lastSweep) > sweepInterval {
			rl.evictIdle(now)
			rl.lastSweep = now
		}
		if rl.MaxClients > 0 && len(rl.clients) >= rl.MaxClients {
			rl.evictOldest()
		}
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[client] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	for k, c := range rl.clients {
		if now.Sub(c.lastSeen) > idleLimiterTTL {
			delete(rl.clients, k)
		}
	}
}

func (rl *RateLimiter) evictOldest() {
	var (
		oldest string
		seen   time.Time
		found  bool
	)
	for k, c := range rl.clients {
		if !found || c.lastSeen.Before(seen) {
			oldest, seen, found = k, c.lastSeen, true
		}
	}
	delete(rl.clients, oldest)
}

// Len reports how many clients are tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Middleware rejects requests over the client's budget with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			metrics.RateLimitedTotal.Inc()
			retry := 1
			if rl.limit > 0 {
				retry = int(math.Ceil(1 / float64(rl.limit)))
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			utils.WriteError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP is the host part of RemoteAddr, which RealIP only rewrites for
// trusted proxies.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
