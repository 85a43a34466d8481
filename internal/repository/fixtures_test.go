package repository_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"github.com/digimarket/backend/internal/domain"
	"github.com/digimarket/backend/internal/repository"
)

// Every fixture prices in EUR: orders reject mixed currencies, so the random
// data must stay within one.
var testCurrency = currency.EUR

func createUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := t.Context()

	user := domain.User{
		Email:        gofakeit.Email(),
		PasswordHash: gofakeit.Password(true, true, true, false, false, 32),
		Role:         domain.RoleClient,
	}

	id, err := repository.NewUser(pool).InsertUser(ctx, user)
	require.NoError(t, err)
	user.ID = id

	return user
}

func createCategory(t *testing.T, pool *pgxpool.Pool) domain.Category {
	t.Helper()
	ctx := t.Context()

	category := domain.Category{
		Name:        gofakeit.ProductCategory() + " " + gofakeit.UUID(),
		Description: gofakeit.Sentence(5),
	}

	id, err := repository.NewCategory(pool).InsertCategory(ctx, category)
	require.NoError(t, err)
	category.ID = id

	return category
}

func createProduct(t *testing.T, pool *pgxpool.Pool, categoryID uuid.UUID, stock int) domain.Product {
	t.Helper()
	ctx := t.Context()

	product := randomProduct(categoryID, stock)

	id, err := repository.NewProduct(pool).InsertProduct(ctx, product)
	require.NoError(t, err)
	product.ID = id

	return product
}

func randomProduct(categoryID uuid.UUID, stock int) domain.Product {
	return domain.Product{
		Name:        gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		Price: domain.Money{
			Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)),
			Currency: testCurrency,
		},
		Stock:      stock,
		CategoryID: categoryID,
	}
}

// randomOrder builds an order with one item per given product, quantity 1,
// totals computed the same way the service does.
func randomOrder(ownerID uuid.UUID, products ...domain.Product) domain.Order {
	total := decimal.Zero

	items := make([]domain.OrderItem, 0, len(products))
	for _, p := range products {
		items = append(items, domain.OrderItem{
			ProductID:    p.ID,
			Quantity:     1,
			PriceAtOrder: p.Price,
		})
		total = total.Add(p.Price.Amount)
	}

	return domain.Order{
		OwnerID: ownerID,
		Status:  domain.OrderStatusPending,
		Total:   domain.Money{Amount: total, Currency: testCurrency},
		Shipping: domain.ShippingInfo{
			Address:    gofakeit.Street(),
			City:       gofakeit.City(),
			PostalCode: gofakeit.Zip(),
			Country:    gofakeit.Country(),
		},
		Items: items,
	}
}

func moneyOpts() cmp.Options {
	return cmp.Options{
		cmp.Comparer(func(x, y decimal.Decimal) bool {
			return x.Equal(y)
		}),
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
	}
}

func assertOrder(t *testing.T, expected, actual domain.Order) {
	t.Helper()

	opts := append(moneyOpts(),
		cmpopts.IgnoreFields(domain.Order{}, "ID", "CreatedAt", "UpdatedAt"),
		cmpopts.IgnoreFields(domain.OrderItem{}, "CreatedAt"),
	)

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.NotEqual(t, uuid.Nil, actual.ID)
	assert.False(t, actual.CreatedAt.IsZero())
	assert.False(t, actual.UpdatedAt.IsZero())
}

func assertProduct(t *testing.T, expected, actual domain.Product) {
	t.Helper()

	opts := append(moneyOpts(),
		cmpopts.IgnoreFields(domain.Product{}, "ID", "CreatedAt", "UpdatedAt"),
	)

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.NotEqual(t, uuid.Nil, actual.ID)
}

func productStock(t *testing.T, pool *pgxpool.Pool, productID uuid.UUID) int {
	t.Helper()

	product, err := repository.NewProduct(pool).GetProduct(t.Context(), productID)
	require.NoError(t, err)

	return product.Stock
}

func truncateOrders(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, "TRUNCATE TABLE order_items, orders CASCADE")
	return err
}
