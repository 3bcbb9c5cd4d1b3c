package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arts-rental/internal/domain"
	"arts-rental/internal/repository"

	"github.com/google/uuid"
)

// ProductInput carries the writable product attributes for management calls
type ProductInput struct {
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string
	Available   bool
	CategoryID  uuid.UUID
}

// CatalogService defines the catalog query layer plus the management
// operations behind the admin role
type CatalogService interface {
	// ListProducts returns available products. A nil category id means no
	// filter; an id that does not resolve to a category falls back to the
	// unfiltered list (tolerant-filter policy, not an error).
	ListProducts(ctx context.Context, categoryID *uuid.UUID) ([]*domain.Product, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	CreateCategory(ctx context.Context, name, description string) (*domain.Category, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ListProducts lists available products, filtered by category when the
// given id resolves to one
func (s *catalogService) ListProducts(ctx context.Context, categoryID *uuid.UUID) ([]*domain.Product, error) {
	filter := categoryID
	if categoryID != nil {
		_, err := s.categoryRepo.FindByID(ctx, *categoryID)
		if err != nil {
			if !errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, fmt.Errorf("failed to resolve category filter: %w", err)
			}
			filter = nil
		}
	}

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListCategories returns all categories for building the filter UI
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetProduct retrieves a single product by id
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// CreateProduct adds a product to the catalog. The category must resolve;
// products never reference a missing category.
func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		ImageURL:    input.ImageURL,
		Available:   input.Available,
		CategoryID:  input.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// UpdateProduct replaces the writable attributes of an existing product
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.PriceCents = input.PriceCents
	product.ImageURL = input.ImageURL
	product.Available = input.Available
	product.CategoryID = input.CategoryID
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog. Carts referencing it
// simply drop the line on their next resolution.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// CreateCategory adds a category for the filter UI
func (s *catalogService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
