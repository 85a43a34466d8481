package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/digimarket/backend/internal/domain"
	"github.com/digimarket/backend/internal/port"
)

// In-memory ports backing the handler tests. One store per test keeps the
// router wiring identical to production while skipping the database.
type memStore struct {
	products   map[uuid.UUID]domain.Product
	categories map[uuid.UUID]domain.Category
	orders     map[uuid.UUID]domain.Order
	users      map[uuid.UUID]domain.User
}

func newMemStore() *memStore {
	return &memStore{
		products:   make(map[uuid.UUID]domain.Product),
		categories: make(map[uuid.UUID]domain.Category),
		orders:     make(map[uuid.UUID]domain.Order),
		users:      make(map[uuid.UUID]domain.User),
	}
}

type memRepos struct {
	store *memStore
}

func (m memRepos) Orders() port.OrderRepository { return &memOrderRepo{store: m.store} }

func (m memRepos) Products() port.ProductRepository { return &memProductRepo{store: m.store} }

// memTx has no rollback: handler tests only assert on committed outcomes.
type memTx struct {
	store *memStore
}

func (m *memTx) InTx(_ context.Context, fn func(repos port.Repos) error) error {
	return fn(memRepos{store: m.store})
}

type memOrderRepo struct {
	store *memStore
}

func (r *memOrderRepo) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, ok := r.store.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return order, nil
}

func (r *memOrderRepo) ListOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var orders []domain.Order
	for _, order := range r.store.orders {
		if len(filter.OwnerIDs) > 0 && order.OwnerID != filter.OwnerIDs[0] {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *memOrderRepo) InsertOrder(_ context.Context, order domain.Order) (uuid.UUID, error) {
	order.ID = uuid.New()
	r.store.orders[order.ID] = order
	return order.ID, nil
}

func (r *memOrderRepo) GetOrderStatusForUpdate(_ context.Context, orderID uuid.UUID) (domain.OrderStatus, error) {
	order, ok := r.store.orders[orderID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return order.Status, nil
}

func (r *memOrderRepo) UpdateOrderStatus(_ context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	order, ok := r.store.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	order.Status = status
	r.store.orders[orderID] = order
	return nil
}

func (r *memOrderRepo) DeleteOrder(_ context.Context, orderID uuid.UUID) error {
	if _, ok := r.store.orders[orderID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.orders, orderID)
	return nil
}

type memProductRepo struct {
	store *memStore
}

func (r *memProductRepo) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	product, ok := r.store.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return product, nil
}

func (r *memProductRepo) GetProductForUpdate(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	return r.GetProduct(ctx, productID)
}

func (r *memProductRepo) ListProducts(_ context.Context, _ domain.ProductFilter) ([]domain.Product, int, error) {
	var products []domain.Product
	for _, p := range r.store.products {
		products = append(products, p)
	}
	return products, len(products), nil
}

func (r *memProductRepo) InsertProduct(_ context.Context, product domain.Product) (uuid.UUID, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.store.products[product.ID] = product
	return product.ID, nil
}

func (r *memProductRepo) UpdateProduct(_ context.Context, product domain.Product) error {
	if _, ok := r.store.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.products[product.ID] = product
	return nil
}

func (r *memProductRepo) DeleteProduct(_ context.Context, productID uuid.UUID) error {
	if _, ok := r.store.products[productID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.products, productID)
	return nil
}

func (r *memProductRepo) Reserve(_ context.Context, productID uuid.UUID, quantity int) error {
	product, ok := r.store.products[productID]
	if !ok || product.Stock < quantity {
		return domain.InsufficientStockError{ProductID: productID}
	}
	product.Stock -= quantity
	r.store.products[productID] = product
	return nil
}

func (r *memProductRepo) Release(_ context.Context, productID uuid.UUID, quantity int) error {
	product, ok := r.store.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	product.Stock += quantity
	r.store.products[productID] = product
	return nil
}

type memCategoryRepo struct {
	store *memStore
}

func (r *memCategoryRepo) GetCategory(_ context.Context, categoryID uuid.UUID) (domain.Category, error) {
	category, ok := r.store.categories[categoryID]
	if !ok {
		return domain.Category{}, domain.ErrNotFound
	}
	return category, nil
}

func (r *memCategoryRepo) ListCategories(_ context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	for _, c := range r.store.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

func (r *memCategoryRepo) InsertCategory(_ context.Context, category domain.Category) (uuid.UUID, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	r.store.categories[category.ID] = category
	return category.ID, nil
}

func (r *memCategoryRepo) UpdateCategory(_ context.Context, category domain.Category) error {
	if _, ok := r.store.categories[category.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.categories[category.ID] = category
	return nil
}

func (r *memCategoryRepo) DeleteCategory(_ context.Context, categoryID uuid.UUID) error {
	if _, ok := r.store.categories[categoryID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.categories, categoryID)
	return nil
}

type memUserRepo struct {
	store *memStore
}

func (r *memUserRepo) GetUser(_ context.Context, userID uuid.UUID) (domain.User, error) {
	user, ok := r.store.users[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r *memUserRepo) InsertUser(_ context.Context, user domain.User) (uuid.UUID, error) {
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return uuid.Nil, domain.ErrAlreadyExists
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.store.users[user.ID] = user
	return user.ID, nil
}
