package carts

import (
	"sync"
	"time"

	"staybook/pkg/model"
)

// Store is the in-memory registry of per-session carts. Each session owns
// exactly one cart; carts idle past the TTL are evicted by a background
// sweep. All access goes through the store's lock, so concurrent requests
// for the same session serialize instead of racing on the cart.
type Store struct {
	mu       sync.RWMutex
	carts    map[string]*entry
	ttl      time.Duration
	currency string
	stopCh   chan struct{}
}

type entry struct {
	cart       *model.Cart
	lastAccess time.Time
}

func NewStore(ttl time.Duration, currency string) *Store {
	store := &Store{
		carts:    make(map[string]*entry),
		ttl:      ttl,
		currency: currency,
		stopCh:   make(chan struct{}),
	}

	go store.cleanup()

	return store
}

// Update runs fn against the session's cart, creating an empty cart on first
// touch. The cart is never shared outside the lock, so fn sees a consistent
// view and its mutations are atomic with respect to other sessions' requests.
func (s *Store) Update(sessionID string, fn func(cart *model.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.carts[sessionID]
	if !ok {
		e = &entry{cart: model.NewCart(s.currency)}
		s.carts[sessionID] = e
	}
	e.lastAccess = time.Now()

	return fn(e.cart)
}

// Snapshot returns a deep copy of the session's cart, or false when the
// session has no cart yet. Readers work from the copy, never the live cart.
func (s *Store) Snapshot(sessionID string) (*model.Cart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.carts[sessionID]
	if !ok {
		return nil, false
	}
	return e.cart.Snapshot(), true
}

// Remove drops the session's cart entirely.
func (s *Store) Remove(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// Len reports how many sessions currently hold a cart.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts)
}

func (s *Store) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for sessionID, e := range s.carts {
				if time.Since(e.lastAccess) > s.ttl {
					delete(s.carts, sessionID)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

// Stop terminates the eviction sweep goroutine.
func (s *Store) Stop() {
	close(s.stopCh)
}
