package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"arts-rental/internal/cart"
	"arts-rental/internal/domain"
	"arts-rental/internal/middleware"
	"arts-rental/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Stub product repository for handler tests
type stubProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newStubProductRepository() *stubProductRepository {
	return &stubProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
	}
}

func (s *stubProductRepository) addProduct(name string, priceCents int64) *domain.Product {
	product := &domain.Product{
		ID:         uuid.New(),
		Name:       name,
		PriceCents: priceCents,
		Available:  true,
		CategoryID: uuid.New(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	s.products[product.ID] = product
	return product
}

func (s *stubProductRepository) Create(ctx context.Context, product *domain.Product) error {
	s.products[product.ID] = product
	return nil
}

func (s *stubProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := s.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	s.products[product.ID] = product
	return nil
}

func (s *stubProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *stubProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (s *stubProductRepository) List(ctx context.Context, categoryID *uuid.UUID) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for _, p := range s.products {
		if !p.Available {
			continue
		}
		if categoryID != nil && p.CategoryID != *categoryID {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *stubProductRepository) Count(ctx context.Context) (int, error) {
	return len(s.products), nil
}

// cartTestClient drives cart routes through the session middleware,
// carrying the session cookie across requests like a browser would.
type cartTestClient struct {
	t      *testing.T
	router chi.Router
	cookie *http.Cookie
}

func newCartTestClient(t *testing.T) (*cartTestClient, *stubProductRepository) {
	t.Helper()

	products := newStubProductRepository()
	engine := cart.NewEngine(cart.NewMemoryStore(), products)
	logger, _ := zap.NewDevelopment()
	handler := NewCartHandler(engine, logger)

	router := chi.NewRouter()
	router.Use(middleware.SessionMiddleware())
	handler.RegisterRoutes(router)

	return &cartTestClient{t: t, router: router}, products
}

func (c *cartTestClient) do(method, path string, payload interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(c.t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	if c.cookie == nil {
		for _, cookie := range w.Result().Cookies() {
			if cookie.Name == middleware.SessionCookieName {
				c.cookie = cookie
			}
		}
	}
	return w
}

func (c *cartTestClient) viewCart() CartResponse {
	c.t.Helper()

	w := c.do(http.MethodGet, "/cart", nil)
	require.Equal(c.t, http.StatusOK, w.Code)

	var response CartResponse
	require.NoError(c.t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestCartRoutes_FirstTouchIssuesSessionCookie(t *testing.T) {
	client, _ := newCartTestClient(t)

	w := client.do(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, client.cookie)

	_, err := uuid.Parse(client.cookie.Value)
	assert.NoError(t, err)
	assert.True(t, client.cookie.HttpOnly)
}

func TestCartRoutes_AddThenView(t *testing.T) {
	client, products := newCartTestClient(t)
	product := products.addProduct("LED Panel", 1500)

	w := client.do(http.MethodPost, "/cart/add", AddToCartRequest{
		ProductID: product.ID.String(),
		Quantity:  2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	response := client.viewCart()
	require.Len(t, response.Items, 1)
	assert.Equal(t, int64(2), response.Items[0].Quantity)
	assert.Equal(t, int64(3000), response.Items[0].SubtotalCents)
	assert.Equal(t, int64(3000), response.TotalCents)
	assert.Equal(t, int64(2), response.Count)
}

func TestCartRoutes_AddDefaultsQuantityToOne(t *testing.T) {
	client, products := newCartTestClient(t)
	product := products.addProduct("XLR Cable", 500)

	w := client.do(http.MethodPost, "/cart/add", AddToCartRequest{
		ProductID: product.ID.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	response := client.viewCart()
	require.Len(t, response.Items, 1)
	assert.Equal(t, int64(1), response.Items[0].Quantity)
}

func TestCartRoutes_RepeatedAddsMerge(t *testing.T) {
	client, products := newCartTestClient(t)
	product := products.addProduct("Spotlight", 2500)

	for i := 0; i < 3; i++ {
		w := client.do(http.MethodPost, "/cart/add", AddToCartRequest{
			ProductID: product.ID.String(),
			Quantity:  2,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	response := client.viewCart()
	require.Len(t, response.Items, 1)
	assert.Equal(t, int64(6), response.Items[0].Quantity)
}

func TestCartRoutes_NegativeQuantityRejected(t *testing.T) {
	client, products := newCartTestClient(t)
	product := products.addProduct("Fog Machine", 4000)

	w := client.do(http.MethodPost, "/cart/add", AddToCartRequest{
		ProductID: product.ID.String(),
		Quantity:  -3,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	response := client.viewCart()
	assert.Empty(t, response.Items)
}

func TestCartRoutes_MalformedProductIDRejected(t *testing.T) {
	client, _ := newCartTestClient(t)

	w := client.do(http.MethodPost, "/cart/add", map[string]interface{}{
		"product_id": "not-a-uuid",
		"quantity":   1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartRoutes_UpdateToZeroRemovesLine(t *testing.T) {
	client, products := newCartTestClient(t)
	product := products.addProduct("Dimmer Pack", 3000)

	w := client.do(http.MethodPost, "/cart/add", AddToCartRequest{
		ProductID: product.ID.String(),
		Quantity:  4,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = client.do(http.MethodPost, "/cart/update", UpdateCartRequest{
		ProductID: product.ID.String(),
		Quantity:  0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	response := client.viewCart()
	assert.Empty(t, response.Items)
}

func TestCartRoutes_RemoveAbsentEntryIsNoOp(t *testing.T) {
	client, products := newCartTestClient(t)
	product := products.addProduct("Truss Section", 7500)

	w := client.do(http.MethodPost, "/cart/remove", RemoveFromCartRequest{
		ProductID: product.ID.String(),
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartRoutes_ClearEmptiesCart(t *testing.T) {
	client, products := newCartTestClient(t)
	a := products.addProduct("LED Panel", 1500)
	b := products.addProduct("XLR Cable", 500)

	for _, p := range []*domain.Product{a, b} {
		w := client.do(http.MethodPost, "/cart/add", AddToCartRequest{
			ProductID: p.ID.String(),
			Quantity:  1,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := client.do(http.MethodPost, "/cart/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := client.viewCart()
	assert.Empty(t, response.Items)
	assert.Equal(t, int64(0), response.TotalCents)
}

func TestCartRoutes_SeparateCookiesSeeSeparateCarts(t *testing.T) {
	clientA, products := newCartTestClient(t)
	product := products.addProduct("Cable Ramp", 1200)

	w := clientA.do(http.MethodPost, "/cart/add", AddToCartRequest{
		ProductID: product.ID.String(),
		Quantity:  5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// A second browser session against the same router
	clientB := &cartTestClient{t: t, router: clientA.router}
	response := clientB.viewCart()
	assert.Empty(t, response.Items)
}
