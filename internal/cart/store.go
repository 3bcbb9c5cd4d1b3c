package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrInvalidQuantity is returned when an add carries a non-positive quantity
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// Store is a keyed cart store: session identifier -> (product id -> quantity).
// Implementations must serialize mutations per key so concurrent requests
// for the same session cannot lose updates. A missing key is an empty cart,
// never an error.
type Store interface {
	// Get returns a copy of the stored mapping for the key
	Get(ctx context.Context, key string) (map[uuid.UUID]int64, error)

	// Add merges quantity into the existing entry by summation, creating
	// the cart lazily on first mutation
	Add(ctx context.Context, key string, productID uuid.UUID, quantity int64) error

	// Set replaces the stored quantity for the product
	Set(ctx context.Context, key string, productID uuid.UUID, quantity int64) error

	// Remove deletes the entry if present; absent entries are a no-op
	Remove(ctx context.Context, key string, productID uuid.UUID) error

	// Clear deletes the cart entirely, so a subsequent read sees a fresh one
	Clear(ctx context.Context, key string) error
}
