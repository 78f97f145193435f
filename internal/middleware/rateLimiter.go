package middleware

import (
	"sync"
	"time"

	"github.com/akolanti/ragsearch/internal/config"
	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client address. Buckets unused for
// idleAfter are dropped on the next sweep.
type IPRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	rateLimit rate.Limit
	burstRate int
	idleAfter time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		clients:   make(map[string]*client),
		rateLimit: r,
		burstRate: b,
		idleAfter: config.RateLimiterIdleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow reports whether ip may make one more request now.
func (i *IPRateLimiter) Allow(ip string) bool {
	i.mu.Lock()
	now := i.now()
	if now.Sub(i.lastSweep) >= i.idleAfter {
		i.sweep(now)
	}
	c, exists := i.clients[ip]
	if !exists {
		c = &client{limiter: rate.NewLimiter(i.rateLimit, i.burstRate)}
		i.clients[ip] = c
	}
	c.lastSeen = now
	i.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

func (i *IPRateLimiter) sweep(now time.Time) {
	for ip, c := range i.clients {
		if now.Sub(c.lastSeen) >= i.idleAfter {
			delete(i.clients, ip)
		}
	}
	i.lastSweep = now
}

func (i *IPRateLimiter) tracked() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.clients)
}

//TODO: buckets are per process, move them to redis once several instances run
