package cart

import (
	"context"
	"errors"
	"fmt"

	"arts-rental/internal/domain"
	"arts-rental/internal/repository"

	"github.com/google/uuid"
)

// Engine is the session-scoped cart logic: a keyed quantity mapping
// materialized against live catalog data at read time. A missing session
// simply yields a fresh empty cart, never an error.
type Engine struct {
	store    Store
	products repository.ProductRepository
}

// NewEngine creates a cart engine over the given store and catalog
func NewEngine(store Store, products repository.ProductRepository) *Engine {
	return &Engine{
		store:    store,
		products: products,
	}
}

// Add merges quantity into the cart entry by summation. Quantity must be a
// positive integer; there is no upper bound.
func (e *Engine) Add(ctx context.Context, sessionID string, productID uuid.UUID, quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return e.store.Add(ctx, sessionID, productID, quantity)
}

// Remove deletes the entry if present; absent entries are a no-op
func (e *Engine) Remove(ctx context.Context, sessionID string, productID uuid.UUID) error {
	return e.store.Remove(ctx, sessionID, productID)
}

// SetQuantity overwrites the stored quantity. A quantity of zero or less
// removes the entry instead.
func (e *Engine) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int64) error {
	if quantity <= 0 {
		return e.store.Remove(ctx, sessionID, productID)
	}
	return e.store.Set(ctx, sessionID, productID, quantity)
}

// Items resolves each stored product id against the catalog. Entries whose
// product no longer resolves or is marked unavailable are silently dropped;
// that is a tolerated inconsistency, not an error. No order is guaranteed.
func (e *Engine) Items(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	stored, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CartItem, 0, len(stored))
	for productID, quantity := range stored {
		product, err := e.products.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to resolve cart item: %w", err)
		}
		if !product.Available {
			continue
		}
		items = append(items, domain.CartItem{
			Product:       product,
			Quantity:      quantity,
			SubtotalCents: product.PriceCents * quantity,
		})
	}
	return items, nil
}

// TotalCents sums price x quantity over resolved items in exact integer
// cents. An empty cart totals zero.
func (e *Engine) TotalCents(ctx context.Context, sessionID string) (int64, error) {
	items, err := e.Items(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, item := range items {
		total += item.SubtotalCents
	}
	return total, nil
}

// Count sums quantities over resolved items. Defining count on the resolved
// view keeps it consistent with Items and TotalCents: a cart holding only
// stale product references counts as zero.
func (e *Engine) Count(ctx context.Context, sessionID string) (int64, error) {
	items, err := e.Items(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	var count int64
	for _, item := range items {
		count += item.Quantity
	}
	return count, nil
}

// IsEmpty reports whether the underlying mapping has no entries. This is the
// raw pre-resolution view, so a cart of stale references is still non-empty
// until removed or cleared.
func (e *Engine) IsEmpty(ctx context.Context, sessionID string) (bool, error) {
	stored, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return len(stored) == 0, nil
}

// Clear deletes the cart entirely so a subsequent read creates a fresh one
func (e *Engine) Clear(ctx context.Context, sessionID string) error {
	return e.store.Clear(ctx, sessionID)
}
