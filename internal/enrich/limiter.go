package enrich

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter rate-limits outbound probes per hostname so repeated
// enrichment of the same company cannot hammer its site.
type HostLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	return &HostLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Limit(reqPerSec),
		b: burst,
	}
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	l, ok := hl.m[host]
	if !ok {
		l = rate.NewLimiter(hl.r, hl.b)
		hl.m[host] = l
	}
	return l
}

func (hl *HostLimiter) Wait(ctx context.Context, host string) error {
	return hl.limiterFor(host).Wait(ctx)
}
