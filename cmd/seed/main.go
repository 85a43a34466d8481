// Command seed populates the database with an admin account and a small
// starter catalog. Safe to run repeatedly: rows that already exist are
// left untouched.
package main

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/digimarket/backend/internal/config"
	"github.com/digimarket/backend/internal/domain"
	"github.com/digimarket/backend/internal/port"
	"github.com/digimarket/backend/internal/repository"
)

const (
	adminEmail    = "admin@digimarket.com"
	adminPassword = "admin123"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg := config.Load()

	ctx := context.Background()

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	users := repository.NewUser(pool)
	categories := repository.NewCategory(pool)
	products := repository.NewProduct(pool)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("failed to hash admin password", zap.Error(err))
	}

	_, err = users.InsertUser(ctx, domain.User{
		Email:        adminEmail,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	})
	switch {
	case err == nil:
		logger.Info("admin user created", zap.String("email", adminEmail))
	case errors.Is(err, domain.ErrAlreadyExists):
		logger.Info("admin user already exists", zap.String("email", adminEmail))
	default:
		logger.Fatal("failed to create admin user", zap.Error(err))
	}

	seedCategories := []domain.Category{
		{Name: "Electronics", Description: "Computers, phones and accessories"},
		{Name: "Books", Description: "Printed and digital books"},
		{Name: "Home", Description: "Home and kitchen essentials"},
	}

	categoryIDs := make(map[string]domain.Category)
	for _, c := range seedCategories {
		id, err := categories.InsertCategory(ctx, c)
		switch {
		case err == nil:
			c.ID = id
			logger.Info("category created", zap.String("name", c.Name))
		case errors.Is(err, domain.ErrAlreadyExists):
			existing, err := findCategoryByName(ctx, categories, c.Name)
			if err != nil {
				logger.Fatal("failed to look up category", zap.String("name", c.Name), zap.Error(err))
			}
			c = existing
		default:
			logger.Fatal("failed to create category", zap.String("name", c.Name), zap.Error(err))
		}
		categoryIDs[c.Name] = c
	}

	type seedProduct struct {
		name        string
		description string
		price       string
		stock       int
		category    string
	}

	seedProducts := []seedProduct{
		{"Laptop Pro 15", "15-inch laptop with 16GB RAM", "1200.00", 50, "Electronics"},
		{"Wireless Mouse", "Ergonomic wireless mouse", "25.50", 200, "Electronics"},
		{"Go in Practice", "Hands-on guide to production Go", "39.90", 80, "Books"},
		{"French Press", "1L stainless steel coffee press", "29.00", 120, "Home"},
	}

	for _, p := range seedProducts {
		amount, err := decimal.NewFromString(p.price)
		if err != nil {
			logger.Fatal("invalid seed price", zap.String("product", p.name), zap.Error(err))
		}

		exists, err := productExists(ctx, products, p.name)
		if err != nil {
			logger.Fatal("failed to look up product", zap.String("name", p.name), zap.Error(err))
		}
		if exists {
			logger.Info("product already exists", zap.String("name", p.name))
			continue
		}

		_, err = products.InsertProduct(ctx, domain.Product{
			Name:        p.name,
			Description: p.description,
			Price:       domain.Money{Amount: amount, Currency: domain.DefaultCurrency},
			Stock:       p.stock,
			CategoryID:  categoryIDs[p.category].ID,
		})
		if err != nil {
			logger.Fatal("failed to create product", zap.String("name", p.name), zap.Error(err))
		}
		logger.Info("product created", zap.String("name", p.name))
	}

	logger.Info("seed complete")
}

func findCategoryByName(ctx context.Context, categories port.CategoryRepository, name string) (domain.Category, error) {
	all, err := categories.ListCategories(ctx)
	if err != nil {
		return domain.Category{}, err
	}
	for _, c := range all {
		if c.Name == name {
			return c, nil
		}
	}
	return domain.Category{}, domain.ErrNotFound
}

func productExists(ctx context.Context, products port.ProductRepository, name string) (bool, error) {
	found, _, err := products.ListProducts(ctx, domain.ProductFilter{NamePattern: name, Page: 1, PerPage: 1})
	if err != nil {
		return false, err
	}
	for _, p := range found {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}
