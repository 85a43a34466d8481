package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
	"golang.org/x/text/currency"

	"github.com/digimarket/backend/internal/domain"
	"github.com/digimarket/backend/internal/port"
)

type orderRepository struct {
	db DB
}

func NewOrder(db DB) port.OrderRepository {
	return &orderRepository{db: db}
}

// NewOrderWithTx binds the repository to an existing transaction so order
// writes commit together with stock mutations done by other repositories.
func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{db: tx}
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := WithTx(ctx, r.db, func(tx pgx.Tx) (domain.Order, error) {
		row := tx.QueryRow(ctx, `
			SELECT id, owner_id, status, total_amount, total_currency,
			       shipping_address, shipping_city, shipping_postal_code, shipping_country,
			       created_at, updated_at
			FROM orders WHERE id = $1`, orderID)

		order, err := scanOrder(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("scanOrder: %w", domain.ErrNotFound)
			}
			return o, fmt.Errorf("scanOrder: %w", err)
		}

		items, err := getOrderItems(ctx, tx, orderID)
		if err != nil {
			return o, fmt.Errorf("getOrderItems: %w", err)
		}
		order.Items = items

		return order, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	statuses := lo.Map(filter.Statuses, func(s domain.OrderStatus, _ int) string {
		return string(s)
	})

	rows, err := r.db.Query(ctx, `
		SELECT id, owner_id, status, total_amount, total_currency,
		       shipping_address, shipping_city, shipping_postal_code, shipping_country,
		       created_at, updated_at
		FROM orders
		WHERE ($1::uuid[] IS NULL OR id = ANY($1))
		  AND ($2::uuid[] IS NULL OR owner_id = ANY($2))
		  AND ($3::text[] IS NULL OR status = ANY($3))
		ORDER BY created_at DESC`,
		nilSliceIfEmpty(filter.IDs), nilSliceIfEmpty(filter.OwnerIDs), nilSliceIfEmpty(statuses))
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrder: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	for i := range orders {
		items, err := getOrderItems(ctx, r.db, orders[i].ID)
		if err != nil {
			return nil, fmt.Errorf("getOrderItems: %w", err)
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if len(order.Items) == 0 {
		return uuid.Nil, errors.New("no items in order")
	}

	orderID, err := WithTx(ctx, r.db, func(tx pgx.Tx) (uuid.UUID, error) {
		var orderID uuid.UUID

		err := tx.QueryRow(ctx, `
			INSERT INTO orders (owner_id, status, total_amount, total_currency,
			                    shipping_address, shipping_city, shipping_postal_code, shipping_country)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			order.OwnerID, string(order.Status), order.Total.Amount, order.Total.Currency.String(),
			order.Shipping.Address, order.Shipping.City, order.Shipping.PostalCode, order.Shipping.Country,
		).Scan(&orderID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert order: %w", err)
		}

		for _, item := range order.Items {
			_, err := tx.Exec(ctx, `
				INSERT INTO order_items (order_id, product_id, quantity, price_amount, price_currency)
				VALUES ($1, $2, $3, $4, $5)`,
				orderID, item.ProductID, item.Quantity,
				item.PriceAtOrder.Amount, item.PriceAtOrder.Currency.String())
			if err != nil {
				return uuid.Nil, fmt.Errorf("insert order item: %w", err)
			}
		}

		return orderID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}

func (r *orderRepository) GetOrderStatusForUpdate(ctx context.Context, orderID uuid.UUID) (domain.OrderStatus, error) {
	var status string

	err := r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("select status: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("select status: %w", err)
	}

	return domain.ToOrderStatus(status)
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}
	if status == "" {
		return fmt.Errorf("status is empty")
	}

	cmdTag, err := r.db.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
		orderID, string(status))
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("update status: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	if _, err := WithTx(ctx, r.db, func(tx pgx.Tx) (struct{}, error) {
		var zero struct{}

		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
			return zero, fmt.Errorf("delete order items: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
		if err != nil {
			return zero, fmt.Errorf("delete order: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return zero, fmt.Errorf("delete order: %w", domain.ErrNotFound)
		}

		return zero, nil
	}); err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func getOrderItems(ctx context.Context, db DB, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := db.Query(ctx, `
		SELECT product_id, quantity, price_amount, price_currency, created_at
		FROM order_items WHERE order_id = $1
		ORDER BY created_at, product_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrderItem: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o             domain.Order
		status        string
		totalCurrency string
	)

	err := row.Scan(&o.ID, &o.OwnerID, &status, &o.Total.Amount, &totalCurrency,
		&o.Shipping.Address, &o.Shipping.City, &o.Shipping.PostalCode, &o.Shipping.Country,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}

	o.Status, err = domain.ToOrderStatus(status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}

	o.Total.Currency, err = currency.ParseISO(totalCurrency)
	if err != nil {
		return o, fmt.Errorf("currency[%s] is not valid: %w", totalCurrency, err)
	}

	return o, nil
}

func scanOrderItem(row pgx.Row) (domain.OrderItem, error) {
	var (
		item         domain.OrderItem
		currencyCode string
	)

	err := row.Scan(&item.ProductID, &item.Quantity, &item.PriceAtOrder.Amount, &currencyCode, &item.CreatedAt)
	if err != nil {
		return item, err
	}

	item.PriceAtOrder.Currency, err = currency.ParseISO(currencyCode)
	if err != nil {
		return item, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}

	return item, nil
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
