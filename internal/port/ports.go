package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/digimarket/backend/internal/domain"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	// InsertOrder persists the header together with all its items.
	// When the repository runs over an external transaction they become
	// visible atomically with everything else in that transaction.
	InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error)

	// GetOrderStatusForUpdate row-locks the order header so a status
	// transition and its inventory side effect commit as one unit.
	GetOrderStatusForUpdate(ctx context.Context, orderID uuid.UUID) (domain.OrderStatus, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error

	// DeleteOrder removes the item rows and then the header, explicitly,
	// in a single transaction. No orphaned items.
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

// ProductRepository is both the catalog accessor and the inventory ledger.
// Reserve and Release are the only sanctioned stock mutators on the order
// path; catalog management goes through Insert/Update/Delete.
type ProductRepository interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	// GetProductForUpdate locks the product row until the surrounding
	// transaction ends, serializing concurrent availability checks.
	GetProductForUpdate(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error)

	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	// Reserve decrements stock by quantity, failing without mutation when
	// the product is missing or stock is below quantity.
	Reserve(ctx context.Context, productID uuid.UUID, quantity int) error
	// Release increments stock by quantity (compensating restock).
	Release(ctx context.Context, productID uuid.UUID, quantity int) error
}

type CategoryRepository interface {
	GetCategory(ctx context.Context, categoryID uuid.UUID) (domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	InsertCategory(ctx context.Context, category domain.Category) (uuid.UUID, error)
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
}

type UserRepository interface {
	GetUser(ctx context.Context, userID uuid.UUID) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	InsertUser(ctx context.Context, user domain.User) (uuid.UUID, error)
}
