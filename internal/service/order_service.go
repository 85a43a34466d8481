package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/digimarket/backend/internal/domain"
	"github.com/digimarket/backend/internal/port"
)

// OrderService owns the order state machine and the inventory invariants:
// creation reserves stock and persists the order in one transaction, and
// cancellation restocks in the same transaction as the status write.
type OrderService struct {
	tx     port.TxRunner
	orders port.OrderRepository
	logger *zap.Logger
}

func NewOrder(tx port.TxRunner, orders port.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		tx:     tx,
		orders: orders,
		logger: logger,
	}
}

func (s *OrderService) Create(ctx context.Context, caller domain.Identity, shipping domain.ShippingInfo, lines []domain.OrderLineRequest) (domain.Order, error) {
	var o domain.Order

	if caller.UserID == uuid.Nil {
		return o, domain.ErrUnauthorized
	}

	if len(lines) == 0 {
		return o, fmt.Errorf("order has no lines: %w", domain.ErrInvalidInput)
	}

	if err := shipping.Validate(); err != nil {
		return o, fmt.Errorf("shipping info incomplete: %w", err)
	}

	normalized := make([]domain.OrderLineRequest, len(lines))
	for i, line := range lines {
		if line.ProductID == uuid.Nil {
			return o, fmt.Errorf("line %d has no product: %w", i, domain.ErrInvalidInput)
		}
		if line.Quantity == 0 {
			line.Quantity = 1
		}
		if line.Quantity < 0 {
			return o, fmt.Errorf("line %d has negative quantity: %w", i, domain.ErrInvalidInput)
		}
		normalized[i] = line
	}

	err := s.tx.InTx(ctx, func(repos port.Repos) error {
		products := repos.Products()

		// Lock product rows in a stable order so two concurrent orders
		// touching the same products cannot deadlock, and cannot both pass
		// the availability check.
		priceByProduct := make(map[uuid.UUID]domain.Money)
		for _, productID := range sortedUniqueProductIDs(normalized) {
			product, err := products.GetProductForUpdate(ctx, productID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return domain.InsufficientStockError{ProductID: productID}
				}
				return fmt.Errorf("products.GetProductForUpdate: %w", err)
			}
			priceByProduct[product.ID] = product.Price
		}

		var total domain.Money
		items := make([]domain.OrderItem, 0, len(normalized))

		for i, line := range normalized {
			// price snapshot: the catalog price current at evaluation time
			price := priceByProduct[line.ProductID]

			if err := products.Reserve(ctx, line.ProductID, line.Quantity); err != nil {
				return fmt.Errorf("products.Reserve: %w", err)
			}

			lineTotal := price.Mul(line.Quantity)
			if i == 0 {
				total = lineTotal
			} else {
				sum, ok := total.Add(lineTotal)
				if !ok {
					return fmt.Errorf("mixed currencies in one order: %w", domain.ErrInvalidInput)
				}
				total = sum
			}

			items = append(items, domain.OrderItem{
				ProductID:    line.ProductID,
				Quantity:     line.Quantity,
				PriceAtOrder: price,
			})
		}

		orderID, err := repos.Orders().InsertOrder(ctx, domain.Order{
			OwnerID:  caller.UserID,
			Status:   domain.OrderStatusPending,
			Total:    total,
			Shipping: shipping,
			Items:    items,
		})
		if err != nil {
			return fmt.Errorf("orders.InsertOrder: %w", err)
		}

		o, err = repos.Orders().GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("orders.GetOrder: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.logger.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.String("owner_id", o.OwnerID.String()),
		zap.Int("lines", len(o.Items)))

	return o, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, caller domain.Identity, orderID uuid.UUID, status domain.OrderStatus) (domain.Order, error) {
	var o domain.Order

	if !caller.IsAdmin() {
		return o, domain.ErrForbidden
	}

	if _, err := domain.ToOrderStatus(string(status)); err != nil {
		return o, fmt.Errorf("status[%s]: %w", status, err)
	}

	err := s.tx.InTx(ctx, func(repos port.Repos) error {
		orders := repos.Orders()

		previous, err := orders.GetOrderStatusForUpdate(ctx, orderID)
		if err != nil {
			return fmt.Errorf("orders.GetOrderStatusForUpdate: %w", err)
		}

		// Restock exactly once: only on the transition into cancelled.
		// Re-cancelling, or any other pair of statuses, leaves stock alone.
		if status == domain.OrderStatusCancelled && previous != domain.OrderStatusCancelled {
			order, err := orders.GetOrder(ctx, orderID)
			if err != nil {
				return fmt.Errorf("orders.GetOrder: %w", err)
			}

			for _, item := range order.Items {
				if err := repos.Products().Release(ctx, item.ProductID, item.Quantity); err != nil {
					return fmt.Errorf("products.Release: %w", err)
				}
			}
		}

		if err := orders.UpdateOrderStatus(ctx, orderID, status); err != nil {
			return fmt.Errorf("orders.UpdateOrderStatus: %w", err)
		}

		o, err = orders.GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("orders.GetOrder: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.logger.Info("order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(status)))

	return o, nil
}

func (s *OrderService) Get(ctx context.Context, caller domain.Identity, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	// A client asking for someone else's order learns nothing, not even
	// that it exists.
	if !caller.IsAdmin() && order.OwnerID != caller.UserID {
		return domain.Order{}, domain.ErrNotFound
	}

	return order, nil
}

func (s *OrderService) List(ctx context.Context, caller domain.Identity) ([]domain.Order, error) {
	filter := domain.OrderFilter{}
	if !caller.IsAdmin() {
		filter.OwnerIDs = []uuid.UUID{caller.UserID}
	}

	orders, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("orders.ListOrders: %w", err)
	}

	return orders, nil
}

func (s *OrderService) ListItems(ctx context.Context, caller domain.Identity, orderID uuid.UUID) ([]domain.OrderItem, error) {
	order, err := s.Get(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}

	return order.Items, nil
}

func (s *OrderService) Delete(ctx context.Context, caller domain.Identity, orderID uuid.UUID) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}

	err := s.tx.InTx(ctx, func(repos port.Repos) error {
		return repos.Orders().DeleteOrder(ctx, orderID)
	})
	if err != nil {
		return fmt.Errorf("orders.DeleteOrder: %w", err)
	}

	s.logger.Info("order deleted", zap.String("order_id", orderID.String()))

	return nil
}

func sortedUniqueProductIDs(lines []domain.OrderLineRequest) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))

	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}

	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})

	return ids
}
