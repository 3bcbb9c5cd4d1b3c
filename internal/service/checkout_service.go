package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arts-rental/internal/cart"
	"arts-rental/internal/domain"
)

var (
	// ErrEmptyCart signals the checkout precondition violation: the caller
	// is sent back to the cart view, nothing changes state.
	ErrEmptyCart = errors.New("cart is empty")
)

// CheckoutSummary is the cart view shown before confirmation
type CheckoutSummary struct {
	Items      []domain.CartItem `json:"items"`
	ItemCount  int64             `json:"item_count"`
	TotalCents int64             `json:"total_cents"`
}

// CheckoutService orchestrates the two-step checkout: summary while
// awaiting confirmation, then a single terminal confirm transition. It
// holds no state of its own beyond the non-empty guard over the cart.
type CheckoutService interface {
	Summary(ctx context.Context, sessionID string) (*CheckoutSummary, error)
	Confirm(ctx context.Context, sessionID string) (*domain.Confirmation, error)
}

type checkoutService struct {
	engine *cart.Engine
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(engine *cart.Engine) CheckoutService {
	return &checkoutService{engine: engine}
}

// Summary returns the resolved cart contents, rejecting an empty cart
func (s *checkoutService) Summary(ctx context.Context, sessionID string) (*CheckoutSummary, error) {
	items, err := s.engine.Items(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	// The guard runs over resolved items: a cart holding only stale
	// product references cannot reach confirmation.
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	summary := &CheckoutSummary{Items: items}
	for _, item := range items {
		summary.ItemCount += item.Quantity
		summary.TotalCents += item.SubtotalCents
	}
	return summary, nil
}

// Confirm performs the single AWAITING_CONFIRMATION -> CONFIRMED transition:
// snapshot the resolved items, issue a unique token, clear the cart. The
// confirmation is returned to the caller and never persisted.
func (s *checkoutService) Confirm(ctx context.Context, sessionID string) (*domain.Confirmation, error) {
	summary, err := s.Summary(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	confirmation := &domain.Confirmation{
		Token:       domain.NewConfirmationToken(),
		Items:       summary.Items,
		ItemCount:   summary.ItemCount,
		TotalCents:  summary.TotalCents,
		ConfirmedAt: time.Now().UTC(),
	}

	if err := s.engine.Clear(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	return confirmation, nil
}
