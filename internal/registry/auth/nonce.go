package auth

import (
	"context"
	"sync"
	"time"
)

// DefaultNonceCapacity bounds how many live proof IDs are remembered.
const DefaultNonceCapacity = 100_000

// NonceCache is a thread-safe set of spent proof IDs, each remembered until
// its own expiry. When full it reports every new ID as seen, so a flood of
// proofs fails closed instead of evicting live entries.
type NonceCache struct {
	mu       sync.Mutex
	seen     map[string]time.Time
	capacity int
	now      func() time.Time
	done     chan struct{}
	closed   bool
}

// NewNonceCache creates a cache and starts its background sweeper.
func NewNonceCache(capacity int) *NonceCache {
	if capacity <= 0 {
		capacity = DefaultNonceCapacity
	}
	c := &NonceCache{
		seen:     make(map[string]time.Time),
		capacity: capacity,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// CheckAndMark atomically checks if id has been seen and marks it until
// expiresAt if not. Returns true if id is a replay.
func (c *NonceCache) CheckAndMark(id string, expiresAt time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if exp, ok := c.seen[id]; ok && now.Before(exp) {
		return true
	}

	if len(c.seen) >= c.capacity {
		c.sweepLocked(now)
		if len(c.seen) >= c.capacity {
			return true
		}
	}

	c.seen[id] = expiresAt
	return false
}

// Forget drops id so a later CheckAndMark accepts it again.
func (c *NonceCache) Forget(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.seen, id)
}

// Spend records the nonces marked while one invocation is in flight, so they
// can be handed back if the invocation does not take effect.
type Spend struct {
	mu       sync.Mutex
	releases []func()
}

type spendKey struct{}

// TrackSpend returns a context under which ProofAuthorizer records every
// nonce it marks into the returned Spend.
func TrackSpend(ctx context.Context) (context.Context, *Spend) {
	s := &Spend{}
	return context.WithValue(ctx, spendKey{}, s), s
}

func spendFromContext(ctx context.Context) *Spend {
	s, _ := ctx.Value(spendKey{}).(*Spend)
	return s
}

func (s *Spend) add(release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases = append(s.releases, release)
}

// Settle keeps the recorded nonces spent when committed is true and releases
// them otherwise. It is safe to call more than once.
func (s *Spend) Settle(committed bool) {
	s.mu.Lock()
	releases := s.releases
	s.releases = nil
	s.mu.Unlock()

	if committed {
		return
	}
	for _, release := range releases {
		release()
	}
}

// Len returns the number of remembered IDs, expired or not.
func (c *NonceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

func (c *NonceCache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.sweepLocked(c.now())
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

// sweepLocked drops expired IDs. Must be called with mu held.
func (c *NonceCache) sweepLocked(now time.Time) {
	for id, exp := range c.seen {
		if !now.Before(exp) {
			delete(c.seen, id)
		}
	}
}

// Close stops the background sweeper. It is safe to call multiple times.
func (c *NonceCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.done)
		c.closed = true
	}
}
