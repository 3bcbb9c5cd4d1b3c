package transport

import (
	"errors"
	"net/http"

	"arts-rental/internal/middleware"
	"arts-rental/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutHandler handles HTTP requests for the checkout flow
type CheckoutHandler struct {
	checkoutService service.CheckoutService
	logger          *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// RegisterRoutes registers all checkout routes; both require an
// authenticated principal
func (h *CheckoutHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/checkout", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.ShowCheckout)
		r.Post("/confirm", h.ConfirmCheckout)
	})
}

// ShowCheckout returns the cart summary awaiting confirmation. An empty
// cart is a recoverable precondition violation, reported with 409.
func (h *CheckoutHandler) ShowCheckout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Error("Session ID not found in context")
		middleware.RespondWithError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	summary, err := h.checkoutService.Summary(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			middleware.RespondWithError(w, http.StatusConflict, "your cart is empty")
			return
		}
		h.logger.Error("Failed to build checkout summary", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build checkout summary")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, summary)
}

// ConfirmCheckout performs the confirm transition: snapshot, token, clear
func (h *CheckoutHandler) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Error("Session ID not found in context")
		middleware.RespondWithError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	confirmation, err := h.checkoutService.Confirm(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			middleware.RespondWithError(w, http.StatusConflict, "your cart is empty")
			return
		}
		h.logger.Error("Checkout confirmation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to confirm checkout")
		return
	}

	h.logger.Info("Checkout confirmed",
		zap.String("token", confirmation.Token),
		zap.Int64("item_count", confirmation.ItemCount),
		zap.Int64("total_cents", confirmation.TotalCents),
	)
	middleware.RespondWithJSON(w, http.StatusOK, confirmation)
}
