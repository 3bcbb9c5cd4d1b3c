package transport

import (
	"errors"
	"net/http"

	"arts-rental/internal/cart"
	"arts-rental/internal/domain"
	"arts-rental/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddToCartRequest is the /cart/add payload; quantity defaults to 1
type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity" validate:"omitempty,gt=0"`
}

// RemoveFromCartRequest is the /cart/remove payload
type RemoveFromCartRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// UpdateCartRequest is the /cart/update payload; zero or negative quantity
// removes the entry
type UpdateCartRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity"`
}

// CartResponse is the cart view: resolved items, exact total, item count
type CartResponse struct {
	Items      []domain.CartItem `json:"items"`
	TotalCents int64             `json:"total_cents"`
	Count      int64             `json:"count"`
}

// CartHandler handles HTTP requests for the session cart
type CartHandler struct {
	engine *cart.Engine
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(engine *cart.Engine, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		engine: engine,
		logger: logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.ViewCart)
		r.Post("/add", h.AddToCart)
		r.Post("/remove", h.RemoveFromCart)
		r.Post("/update", h.UpdateQuantity)
		r.Post("/clear", h.ClearCart)
	})
}

// ViewCart returns the cart snapshot for the current session
func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Error("Session ID not found in context")
		middleware.RespondWithError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	items, err := h.engine.Items(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to read cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read cart")
		return
	}

	response := CartResponse{Items: items}
	for _, item := range items {
		response.TotalCents += item.SubtotalCents
		response.Count += item.Quantity
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// AddToCart merges a quantity into the session cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add to cart validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Quantity == 0 {
		req.Quantity = 1
	}

	sessionID, productID, ok := h.sessionAndProduct(w, r, req.ProductID)
	if !ok {
		return
	}

	if err := h.engine.Add(r.Context(), sessionID, productID, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			middleware.RespondWithError(w, http.StatusBadRequest, "quantity must be a positive integer")
			return
		}
		h.logger.Error("Failed to add to cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product added to cart"})
}

// RemoveFromCart deletes a cart entry; removing an absent entry is a no-op
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var req RemoveFromCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Remove from cart validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID, productID, ok := h.sessionAndProduct(w, r, req.ProductID)
	if !ok {
		return
	}

	if err := h.engine.Remove(r.Context(), sessionID, productID); err != nil {
		h.logger.Error("Failed to remove from cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove from cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product removed from cart"})
}

// UpdateQuantity overwrites a stored quantity; zero or less removes the entry
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Update cart validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID, productID, ok := h.sessionAndProduct(w, r, req.ProductID)
	if !ok {
		return
	}

	if err := h.engine.SetQuantity(r.Context(), sessionID, productID, req.Quantity); err != nil {
		h.logger.Error("Failed to update cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "cart updated"})
}

// ClearCart deletes the session cart entirely
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Error("Session ID not found in context")
		middleware.RespondWithError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	if err := h.engine.Clear(r.Context(), sessionID); err != nil {
		h.logger.Error("Failed to clear cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

func (h *CartHandler) sessionAndProduct(w http.ResponseWriter, r *http.Request, rawProductID string) (string, uuid.UUID, bool) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Error("Session ID not found in context")
		middleware.RespondWithError(w, http.StatusInternalServerError, "session unavailable")
		return "", uuid.Nil, false
	}

	productID, err := uuid.Parse(rawProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return "", uuid.Nil, false
	}

	return sessionID, productID, true
}
