package service_test

import (
	"context"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/digimarket/backend/internal/domain"
	"github.com/digimarket/backend/internal/port"
)

// memStore is a single in-memory backing store shared by the fake
// repositories so order and product mutations observe each other, the same
// way they do against one database.
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

func (s *memStore) snapshot() *memStore {
	return &memStore{
		products:   maps.Clone(s.products),
		categories: maps.Clone(s.categories),
		orders:     maps.Clone(s.orders),
		users:      maps.Clone(s.users),
	}
}

func (s *memStore) restore(from *memStore) {
	s.products = from.products
	s.categories = from.categories
	s.orders = from.orders
	s.users = from.users
}

func (s *memStore) addProduct(p domain.Product) domain.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addCategory(c domain.Category) domain.Category {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.categories[c.ID] = c
	return c
}

func (s *memStore) addUser(u domain.User) domain.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.users[u.ID] = u
	return u
}

// fakeTx runs the callback against the shared store and rolls the store back
// to a snapshot when the callback fails.
type fakeTx struct {
	store *memStore
}

func (f *fakeTx) InTx(_ context.Context, fn func(repos port.Repos) error) error {
	before := f.store.snapshot()

	err := fn(fakeRepos{store: f.store})
	if err != nil {
		f.store.restore(before)
		return err
	}

	return nil
}

type fakeRepos struct {
	store *memStore
}

func (f fakeRepos) Orders() port.OrderRepository { return &fakeOrderRepo{store: f.store} }

func (f fakeRepos) Products() port.ProductRepository { return &fakeProductRepo{store: f.store} }

type fakeOrderRepo struct {
	store *memStore
}

func (r *fakeOrderRepo) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, ok := r.store.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) ListOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var orders []domain.Order

	for _, order := range r.store.orders {
		if len(filter.IDs) > 0 && !lo.Contains(filter.IDs, order.ID) {
			continue
		}
		if len(filter.OwnerIDs) > 0 && !lo.Contains(filter.OwnerIDs, order.OwnerID) {
			continue
		}
		if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, order.Status) {
			continue
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func (r *fakeOrderRepo) InsertOrder(_ context.Context, order domain.Order) (uuid.UUID, error) {
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.store.orders[order.ID] = order
	return order.ID, nil
}

func (r *fakeOrderRepo) GetOrderStatusForUpdate(_ context.Context, orderID uuid.UUID) (domain.OrderStatus, error) {
	order, ok := r.store.orders[orderID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return order.Status, nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(_ context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	order, ok := r.store.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.store.orders[orderID] = order
	return nil
}

func (r *fakeOrderRepo) DeleteOrder(_ context.Context, orderID uuid.UUID) error {
	if _, ok := r.store.orders[orderID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.orders, orderID)
	return nil
}

type fakeProductRepo struct {
	store *memStore
}

func (r *fakeProductRepo) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	product, ok := r.store.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) GetProductForUpdate(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	return r.GetProduct(ctx, productID)
}

func (r *fakeProductRepo) ListProducts(_ context.Context, _ domain.ProductFilter) ([]domain.Product, int, error) {
	var products []domain.Product
	for _, p := range r.store.products {
		products = append(products, p)
	}
	return products, len(products), nil
}

func (r *fakeProductRepo) InsertProduct(_ context.Context, product domain.Product) (uuid.UUID, error) {
	return r.store.addProduct(product).ID, nil
}

func (r *fakeProductRepo) UpdateProduct(_ context.Context, product domain.Product) error {
	if _, ok := r.store.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) DeleteProduct(_ context.Context, productID uuid.UUID) error {
	if _, ok := r.store.products[productID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.products, productID)
	return nil
}

func (r *fakeProductRepo) Reserve(_ context.Context, productID uuid.UUID, quantity int) error {
	product, ok := r.store.products[productID]
	if !ok || product.Stock < quantity {
		return domain.InsufficientStockError{ProductID: productID}
	}
	product.Stock -= quantity
	r.store.products[productID] = product
	return nil
}

func (r *fakeProductRepo) Release(_ context.Context, productID uuid.UUID, quantity int) error {
	product, ok := r.store.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	product.Stock += quantity
	r.store.products[productID] = product
	return nil
}

type fakeCategoryRepo struct {
	store *memStore
}

func (r *fakeCategoryRepo) GetCategory(_ context.Context, categoryID uuid.UUID) (domain.Category, error) {
	category, ok := r.store.categories[categoryID]
	if !ok {
		return domain.Category{}, domain.ErrNotFound
	}
	return category, nil
}

func (r *fakeCategoryRepo) ListCategories(_ context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	for _, c := range r.store.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

func (r *fakeCategoryRepo) InsertCategory(_ context.Context, category domain.Category) (uuid.UUID, error) {
	for _, c := range r.store.categories {
		if c.Name == category.Name {
			return uuid.Nil, domain.ErrAlreadyExists
		}
	}
	return r.store.addCategory(category).ID, nil
}

func (r *fakeCategoryRepo) UpdateCategory(_ context.Context, category domain.Category) error {
	if _, ok := r.store.categories[category.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) DeleteCategory(_ context.Context, categoryID uuid.UUID) error {
	if _, ok := r.store.categories[categoryID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.categories, categoryID)
	return nil
}

type fakeUserRepo struct {
	store *memStore
}

func (r *fakeUserRepo) GetUser(_ context.Context, userID uuid.UUID) (domain.User, error) {
	user, ok := r.store.users[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r *fakeUserRepo) InsertUser(_ context.Context, user domain.User) (uuid.UUID, error) {
	if _, err := r.GetUserByEmail(context.Background(), user.Email); err == nil {
		return uuid.Nil, domain.ErrAlreadyExists
	}
	return r.store.addUser(user).ID, nil
}
