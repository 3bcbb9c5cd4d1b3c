package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a stored cart entry resolved against the live catalog
type CartItem struct {
	Product       *Product `json:"product"`
	Quantity      int64    `json:"quantity"`
	SubtotalCents int64    `json:"subtotal_cents"`
}

// Confirmation is issued once at checkout time. It is handed to the
// response and never persisted; no order or reservation row exists.
type Confirmation struct {
	Token       string     `json:"token"`
	Items       []CartItem `json:"items"`
	ItemCount   int64      `json:"item_count"`
	TotalCents  int64      `json:"total_cents"`
	ConfirmedAt time.Time  `json:"confirmed_at"`
}

// NewConfirmationToken returns a collision-resistant reservation token,
// unique per process run.
func NewConfirmationToken() string {
	return "RES-" + uuid.NewString()
}
