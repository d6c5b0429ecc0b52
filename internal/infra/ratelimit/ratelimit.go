// Package ratelimit provides a per-client request limiter for the HTTP
// layer. Each client key (remote IP or session) gets its own token
// bucket; idle buckets are evicted after an inactivity window so the
// registry does not grow without bound.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PerClient hands out one token bucket per client key.
type PerClient struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter

	perMinute int
	burst     int
}

// NewPerClient creates a registry allowing perMinute requests per
// client, with a burst equal to perMinute.
func NewPerClient(perMinute int) *PerClient {
	p := &PerClient{
		clients:   make(map[string]*clientLimiter),
		perMinute: perMinute,
		burst:     perMinute,
	}
	go p.evictLoop()
	return p
}

// Allow reports whether the client may make one more request now.
func (p *PerClient) Allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	cl, ok := p.clients[key]
	if !ok {
		cl = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(float64(p.perMinute)/60.0), p.burst),
		}
		p.clients[key] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter.Allow()
}

// evictLoop drops buckets idle for more than three minutes.
func (p *PerClient) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-3 * time.Minute)
		p.mu.Lock()
		for key, cl := range p.clients {
			if cl.lastSeen.Before(cutoff) {
				delete(p.clients, key)
			}
		}
		p.mu.Unlock()
	}
}
