package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/digimarket/backend/internal/domain"
	"github.com/digimarket/backend/internal/port"
)

type categoryRepository struct {
	db DB
}

func NewCategory(db DB) port.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetCategory(ctx context.Context, categoryID uuid.UUID) (domain.Category, error) {
	var c domain.Category

	err := r.db.QueryRow(ctx, `
		SELECT id, name, description FROM categories WHERE id = $1`, categoryID).
		Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c, fmt.Errorf("scan category: %w", domain.ErrNotFound)
		}
		return c, fmt.Errorf("scan category: %w", err)
	}

	return c, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *categoryRepository) InsertCategory(ctx context.Context, category domain.Category) (uuid.UUID, error) {
	var categoryID uuid.UUID

	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id`,
		category.Name, category.Description,
	).Scan(&categoryID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return uuid.Nil, fmt.Errorf("insert category: %w", domain.ErrAlreadyExists)
		}
		return uuid.Nil, fmt.Errorf("insert category: %w", err)
	}

	return categoryID, nil
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE categories SET name = $2, description = $3 WHERE id = $1`,
		category.ID, category.Name, category.Description)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("update category: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *categoryRepository) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, categoryID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("delete category: %w", domain.ErrNotFound)
	}

	return nil
}
