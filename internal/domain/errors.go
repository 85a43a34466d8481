package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

// InsufficientStockError names the first product that could not be reserved.
// The whole order is rejected without any stock mutation.
type InsufficientStockError struct {
	ProductID uuid.UUID
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("product %s not available or insufficient stock", e.ProductID)
}
