package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"arts-rental/internal/domain"
	"arts-rental/internal/repository"
	"arts-rental/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Stub category repository for handler tests
type stubCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newStubCategoryRepository() *stubCategoryRepository {
	return &stubCategoryRepository{
		categories: make(map[uuid.UUID]*domain.Category),
	}
}

func (s *stubCategoryRepository) addCategory(name string) *domain.Category {
	category := &domain.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	s.categories[category.ID] = category
	return category
}

func (s *stubCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	s.categories[category.ID] = category
	return nil
}

func (s *stubCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

func (s *stubCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, ok := s.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (s *stubCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range s.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (s *stubCategoryRepository) Count(ctx context.Context) (int, error) {
	return len(s.categories), nil
}

func newCatalogFixture(t *testing.T) (chi.Router, *stubProductRepository, *stubCategoryRepository) {
	t.Helper()

	products := newStubProductRepository()
	categories := newStubCategoryRepository()
	logger, _ := zap.NewDevelopment()
	handler := NewCatalogHandler(service.NewCatalogService(products, categories), logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router, products, categories
}

func getCatalog(t *testing.T, router chi.Router, path string) CatalogResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response CatalogResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestCatalog_ListsProductsAndCategories(t *testing.T) {
	router, products, categories := newCatalogFixture(t)

	lighting := categories.addCategory("Lighting")
	categories.addCategory("Cables")

	a := products.addProduct("LED Panel", 1500)
	a.CategoryID = lighting.ID
	b := products.addProduct("Spotlight", 2500)
	b.CategoryID = lighting.ID

	response := getCatalog(t, router, "/catalog")
	assert.Len(t, response.Products, 2)
	assert.Len(t, response.Categories, 2)
}

func TestCatalog_FiltersByCategoryQueryParam(t *testing.T) {
	router, products, categories := newCatalogFixture(t)

	lighting := categories.addCategory("Lighting")
	cables := categories.addCategory("Cables")

	a := products.addProduct("LED Panel", 1500)
	a.CategoryID = lighting.ID
	b := products.addProduct("XLR Cable", 500)
	b.CategoryID = cables.ID

	response := getCatalog(t, router, "/catalog?categoryId="+cables.ID.String())
	require.Len(t, response.Products, 1)
	assert.Equal(t, "XLR Cable", response.Products[0].Name)
	// Categories stay complete so the filter UI keeps all options
	assert.Len(t, response.Categories, 2)
}

func TestCatalog_UnknownCategoryFallsBackToFullList(t *testing.T) {
	router, products, categories := newCatalogFixture(t)

	lighting := categories.addCategory("Lighting")
	a := products.addProduct("LED Panel", 1500)
	a.CategoryID = lighting.ID

	response := getCatalog(t, router, "/catalog?categoryId="+uuid.NewString())
	assert.Len(t, response.Products, 1)
}

func TestCatalog_MalformedCategoryIsIgnored(t *testing.T) {
	router, products, categories := newCatalogFixture(t)

	lighting := categories.addCategory("Lighting")
	a := products.addProduct("LED Panel", 1500)
	a.CategoryID = lighting.ID

	response := getCatalog(t, router, "/catalog?categoryId=not-a-uuid")
	assert.Len(t, response.Products, 1)
}

func TestCatalog_HidesUnavailableProducts(t *testing.T) {
	router, products, categories := newCatalogFixture(t)

	lighting := categories.addCategory("Lighting")
	a := products.addProduct("LED Panel", 1500)
	a.CategoryID = lighting.ID
	hidden := products.addProduct("Broken Strobe", 900)
	hidden.CategoryID = lighting.ID
	hidden.Available = false

	response := getCatalog(t, router, "/catalog")
	require.Len(t, response.Products, 1)
	assert.Equal(t, "LED Panel", response.Products[0].Name)
}

func TestCatalog_CategoriesEndpoint(t *testing.T) {
	router, _, categories := newCatalogFixture(t)

	categories.addCategory("Lighting")
	categories.addCategory("Stage Equipment")

	req := httptest.NewRequest(http.MethodGet, "/catalog/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []*domain.Category
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listed))
	assert.Len(t, listed, 2)
}
