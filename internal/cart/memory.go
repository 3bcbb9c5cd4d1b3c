package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps carts in an in-process table. A single mutex guards the
// table itself; each cart carries its own lock so mutations are serialized
// per session key.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*memoryCart
}

type memoryCart struct {
	mu    sync.Mutex
	items map[uuid.UUID]int64
}

// NewMemoryStore creates an empty in-memory cart store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]*memoryCart),
	}
}

// Get returns a copy of the cart for the key, empty if none exists
func (s *MemoryStore) Get(_ context.Context, key string) (map[uuid.UUID]int64, error) {
	s.mu.RLock()
	c, ok := s.carts[key]
	s.mu.RUnlock()

	if !ok {
		return map[uuid.UUID]int64{}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items := make(map[uuid.UUID]int64, len(c.items))
	for id, qty := range c.items {
		items[id] = qty
	}
	return items, nil
}

// Add merges quantity into the existing entry by summation
func (s *MemoryStore) Add(_ context.Context, key string, productID uuid.UUID, quantity int64) error {
	c := s.cart(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[productID] += quantity
	return nil
}

// Set replaces the stored quantity for the product
func (s *MemoryStore) Set(_ context.Context, key string, productID uuid.UUID, quantity int64) error {
	c := s.cart(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[productID] = quantity
	return nil
}

// Remove deletes the entry if present
func (s *MemoryStore) Remove(_ context.Context, key string, productID uuid.UUID) error {
	s.mu.RLock()
	c, ok := s.carts[key]
	s.mu.RUnlock()

	if !ok {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, productID)
	return nil
}

// Clear deletes the cart entirely
func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, key)
	return nil
}

// cart returns the cart for the key, creating it lazily on first mutation
func (s *MemoryStore) cart(key string) *memoryCart {
	s.mu.RLock()
	c, ok := s.carts[key]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok = s.carts[key]; ok {
		return c
	}
	c = &memoryCart{items: make(map[uuid.UUID]int64)}
	s.carts[key] = c
	return c
}
