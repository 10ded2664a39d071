package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atlanticave/storefront/internal/domain/cart"
)

// entry is one persisted cart snapshot with its expiry
type entry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryCartStore implements cart.Store using an in-memory map.
// All updates are serialized by a single mutex.
type InMemoryCartStore struct {
	mu        sync.Mutex
	entries   map[string]entry
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCartStore creates an in-memory cart store. ttl is the idle lifetime: every
// Load or Update pushes the expiry forward. It starts a background goroutine that drops
// expired carts.
func NewInMemoryCartStore(ttl time.Duration, logger *zap.Logger) (*InMemoryCartStore, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTTL, ttl)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	store := &InMemoryCartStore{
		entries:  make(map[string]entry),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop(sweepInterval(ttl))

	return store, nil
}

// Load returns the session's cart, or an empty cart
func (s *InMemoryCartStore) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(sessionID), nil
}

// Update applies fn to the session's cart under the store lock
func (s *InMemoryCartStore) Update(ctx context.Context, sessionID string, fn func(*cart.Cart) error) (*cart.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.loadLocked(sessionID)
	if err := fn(c); err != nil {
		return nil, err
	}

	if c.IsEmpty() {
		delete(s.entries, sessionID)
		return c, nil
	}

	data, err := cart.Encode(c)
	if err != nil {
		return nil, err
	}
	s.entries[sessionID] = entry{data: data, expiresAt: s.now().Add(s.ttl)}
	return c, nil
}

// Delete destroys the session's cart
func (s *InMemoryCartStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryCartStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of stored carts
func (s *InMemoryCartStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *InMemoryCartStore) loadLocked(sessionID string) *cart.Cart {
	e, ok := s.entries[sessionID]
	if !ok {
		return cart.New()
	}
	now := s.now()
	if now.After(e.expiresAt) {
		delete(s.entries, sessionID)
		return cart.New()
	}
	e.expiresAt = now.Add(s.ttl)
	s.entries[sessionID] = e
	return decodeOrReset(e.data, sessionID, s.logger)
}

func (s *InMemoryCartStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired carts
func (s *InMemoryCartStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	return interval
}

// decodeOrReset parses a snapshot; an unreadable snapshot is replaced by an empty cart
func decodeOrReset(data []byte, sessionID string, logger *zap.Logger) *cart.Cart {
	c, err := cart.Decode(data)
	if err != nil {
		logger.Warn("discarding corrupt cart snapshot",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return cart.New()
	}
	return c
}

var _ cart.Store = (*InMemoryCartStore)(nil)
