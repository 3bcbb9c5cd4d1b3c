package transport

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"arts-rental/internal/cart"
	"arts-rental/internal/domain"
	"arts-rental/internal/middleware"
	"arts-rental/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCheckoutTestClient(t *testing.T) (*cartTestClient, *stubProductRepository) {
	t.Helper()

	products := newStubProductRepository()
	engine := cart.NewEngine(cart.NewMemoryStore(), products)
	logger, _ := zap.NewDevelopment()

	cartHandler := NewCartHandler(engine, logger)
	checkoutHandler := NewCheckoutHandler(service.NewCheckoutService(engine), logger)

	// The auth contract is covered by the middleware tests; here the
	// principal is assumed present.
	passthrough := func(next http.Handler) http.Handler { return next }

	router := chi.NewRouter()
	router.Use(middleware.SessionMiddleware())
	cartHandler.RegisterRoutes(router)
	checkoutHandler.RegisterRoutes(router, passthrough)

	return &cartTestClient{t: t, router: router}, products
}

func TestCheckout_EmptyCartReturnsConflict(t *testing.T) {
	client, _ := newCheckoutTestClient(t)

	w := client.do(http.MethodGet, "/checkout", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = client.do(http.MethodPost, "/checkout/confirm", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckout_SummaryShowsItemsAndTotals(t *testing.T) {
	client, products := newCheckoutTestClient(t)
	a := products.addProduct("LED Panel", 1500)
	b := products.addProduct("XLR Cable", 500)

	w := client.do(http.MethodPost, "/cart/add", AddToCartRequest{ProductID: a.ID.String(), Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code)
	w = client.do(http.MethodPost, "/cart/add", AddToCartRequest{ProductID: b.ID.String(), Quantity: 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = client.do(http.MethodGet, "/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary service.CheckoutSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Len(t, summary.Items, 2)
	assert.Equal(t, int64(3), summary.ItemCount)
	assert.Equal(t, int64(3500), summary.TotalCents)
}

func TestCheckout_ConfirmReturnsTokenAndClearsCart(t *testing.T) {
	client, products := newCheckoutTestClient(t)
	product := products.addProduct("Spotlight", 2500)

	w := client.do(http.MethodPost, "/cart/add", AddToCartRequest{ProductID: product.ID.String(), Quantity: 3})
	require.Equal(t, http.StatusOK, w.Code)

	w = client.do(http.MethodPost, "/checkout/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var confirmation domain.Confirmation
	require.NoError(t, json.NewDecoder(w.Body).Decode(&confirmation))
	assert.True(t, strings.HasPrefix(confirmation.Token, "RES-"))
	assert.Equal(t, int64(3), confirmation.ItemCount)
	assert.Equal(t, int64(7500), confirmation.TotalCents)
	require.Len(t, confirmation.Items, 1)

	// The cart is gone; a second confirm hits the empty-cart guard
	response := client.viewCart()
	assert.Empty(t, response.Items)

	w = client.do(http.MethodPost, "/checkout/confirm", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckout_StaleOnlyCartCannotConfirm(t *testing.T) {
	client, products := newCheckoutTestClient(t)
	product := products.addProduct("Retired Mixer", 3000)

	w := client.do(http.MethodPost, "/cart/add", AddToCartRequest{ProductID: product.ID.String(), Quantity: 1})
	require.Equal(t, http.StatusOK, w.Code)

	product.Available = false

	w = client.do(http.MethodPost, "/checkout/confirm", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
