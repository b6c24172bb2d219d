package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrCircuitOpen is returned while a source's breaker refuses calls.
var ErrCircuitOpen = errors.New("circuit open")

// Guard wraps every call to an upstream source in a per-source circuit
// breaker and a per-source token bucket.
type Guard struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewGuard creates a Guard allowing rps requests per second per source.
func NewGuard(rps float64, burst int) *Guard {
	if burst < 1 {
		burst = 1
	}
	return &Guard{
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

func (g *Guard) get(source string) (*gobreaker.CircuitBreaker, *rate.Limiter) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cb, ok := g.breakers[source]
	if !ok {
		cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        source,
			MaxRequests: 1,
			Interval:    5 * time.Minute,
			Timeout:     2 * time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		})
		g.breakers[source] = cb
	}
	lim, ok := g.limiters[source]
	if !ok {
		limit := rate.Inf
		if g.rps > 0 {
			limit = rate.Limit(g.rps)
		}
		lim = rate.NewLimiter(limit, g.burst)
		g.limiters[source] = lim
	}
	return cb, lim
}

// Do waits for a rate token, then runs fn through the source's breaker.
func (g *Guard) Do(ctx context.Context, source string, fn func(ctx context.Context) (any, error)) (any, error) {
	cb, lim := g.get(source)
	if err := lim.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", source, err)
	}
	res, err := cb.Execute(func() (any, error) { return fn(ctx) })
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, source)
	}
	return res, err
}

// State reports the breaker state of a source, "closed" for unseen sources.
func (g *Guard) State(source string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cb, ok := g.breakers[source]; ok {
		return cb.State().String()
	}
	return gobreaker.StateClosed.String()
}
