package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/text/currency"

	"github.com/digimarket/backend/internal/domain"
	"github.com/digimarket/backend/internal/port"
)

const productColumns = `id, name, description, price_amount, price_currency, stock, category_id, created_at, updated_at`

type productRepository struct {
	db DB
}

func NewProduct(db DB) port.ProductRepository {
	return &productRepository{db: db}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, productID)
	return scanProduct(row)
}

// GetProductForUpdate locks the product row for the rest of the surrounding
// transaction. Order creation relies on this to serialize availability
// checks on the same product.
func (r *productRepository) GetProductForUpdate(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, productID)
	return scanProduct(row)
}

func (r *productRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	filter = filter.Normalize()

	var total int
	err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM products
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2::uuid IS NULL OR category_id = $2)`,
		filter.NamePattern, filter.CategoryID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2::uuid IS NULL OR category_id = $2)
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4`,
		filter.NamePattern, filter.CategoryID, filter.PerPage, (filter.Page-1)*filter.PerPage)
	if err != nil {
		return nil, 0, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanProduct: %w", err)
		}
		products = append(products, product)
	}

	return products, total, rows.Err()
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	var productID uuid.UUID

	err := r.db.QueryRow(ctx, `
		INSERT INTO products (name, description, price_amount, price_currency, stock, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		product.Name, product.Description, product.Price.Amount, product.Price.Currency.String(),
		product.Stock, product.CategoryID,
	).Scan(&productID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert product: %w", err)
	}

	return productID, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, price_amount = $4, price_currency = $5,
		    stock = $6, category_id = $7, updated_at = now()
		WHERE id = $1`,
		product.ID, product.Name, product.Description,
		product.Price.Amount, product.Price.Currency.String(), product.Stock, product.CategoryID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("update product: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("delete product: %w", domain.ErrNotFound)
	}

	return nil
}

// Reserve conditionally decrements stock. The WHERE clause is the whole
// no-oversell guarantee: the row update either sees enough stock or touches
// nothing.
func (r *productRepository) Reserve(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", domain.ErrInvalidInput)
	}

	cmdTag, err := r.db.Exec(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`,
		productID, quantity)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.InsufficientStockError{ProductID: productID}
	}

	return nil
}

// Release unconditionally restocks. Used only as the compensating action of
// a cancellation.
func (r *productRepository) Release(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", domain.ErrInvalidInput)
	}

	cmdTag, err := r.db.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1`,
		productID, quantity)
	if err != nil {
		return fmt.Errorf("release stock: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("release stock: %w", domain.ErrNotFound)
	}

	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p            domain.Product
		currencyCode string
	)

	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price.Amount, &currencyCode,
		&p.Stock, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("scan product: %w", domain.ErrNotFound)
		}
		return p, fmt.Errorf("scan product: %w", err)
	}

	p.Price.Currency, err = currency.ParseISO(currencyCode)
	if err != nil {
		return p, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}

	return p, nil
}
