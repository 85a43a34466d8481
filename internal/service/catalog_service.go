package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/digimarket/backend/internal/domain"
	"github.com/digimarket/backend/internal/port"
)

// CatalogService manages products and categories. Reads are public;
// mutations require the admin role. The order core never goes through this
// service, it reads price and stock straight from the product port.
type CatalogService struct {
	products   port.ProductRepository
	categories port.CategoryRepository
	logger     *zap.Logger
}

func NewCatalog(products port.ProductRepository, categories port.CategoryRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	return s.products.GetProduct(ctx, productID)
}

func (s *CatalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	return s.products.ListProducts(ctx, filter)
}

func (s *CatalogService) CreateProduct(ctx context.Context, caller domain.Identity, product domain.Product) (domain.Product, error) {
	var p domain.Product

	if !caller.IsAdmin() {
		return p, domain.ErrForbidden
	}

	if product.Name == "" || product.Price.Amount.IsNegative() || product.Stock < 0 {
		return p, fmt.Errorf("product fields invalid: %w", domain.ErrInvalidInput)
	}

	if _, err := s.categories.GetCategory(ctx, product.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return p, fmt.Errorf("category %s: %w", product.CategoryID, domain.ErrNotFound)
		}
		return p, fmt.Errorf("categories.GetCategory: %w", err)
	}

	productID, err := s.products.InsertProduct(ctx, product)
	if err != nil {
		return p, fmt.Errorf("products.InsertProduct: %w", err)
	}

	s.logger.Info("product created", zap.String("product_id", productID.String()))

	return s.products.GetProduct(ctx, productID)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, caller domain.Identity, product domain.Product) (domain.Product, error) {
	var p domain.Product

	if !caller.IsAdmin() {
		return p, domain.ErrForbidden
	}

	if _, err := s.categories.GetCategory(ctx, product.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return p, fmt.Errorf("category %s: %w", product.CategoryID, domain.ErrNotFound)
		}
		return p, fmt.Errorf("categories.GetCategory: %w", err)
	}

	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return p, fmt.Errorf("products.UpdateProduct: %w", err)
	}

	return s.products.GetProduct(ctx, product.ID)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, caller domain.Identity, productID uuid.UUID) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}

	if err := s.products.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("products.DeleteProduct: %w", err)
	}

	return nil
}

func (s *CatalogService) GetCategory(ctx context.Context, categoryID uuid.UUID) (domain.Category, error) {
	return s.categories.GetCategory(ctx, categoryID)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, caller domain.Identity, category domain.Category) (domain.Category, error) {
	var c domain.Category

	if !caller.IsAdmin() {
		return c, domain.ErrForbidden
	}

	if category.Name == "" {
		return c, fmt.Errorf("category name is required: %w", domain.ErrInvalidInput)
	}

	categoryID, err := s.categories.InsertCategory(ctx, category)
	if err != nil {
		return c, fmt.Errorf("categories.InsertCategory: %w", err)
	}

	return s.categories.GetCategory(ctx, categoryID)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, caller domain.Identity, category domain.Category) (domain.Category, error) {
	var c domain.Category

	if !caller.IsAdmin() {
		return c, domain.ErrForbidden
	}

	if err := s.categories.UpdateCategory(ctx, category); err != nil {
		return c, fmt.Errorf("categories.UpdateCategory: %w", err)
	}

	return s.categories.GetCategory(ctx, category.ID)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, caller domain.Identity, categoryID uuid.UUID) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}

	if err := s.categories.DeleteCategory(ctx, categoryID); err != nil {
		return fmt.Errorf("categories.DeleteCategory: %w", err)
	}

	return nil
}
