package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is read-mostly from the order core's perspective: creation only
// consumes its current price and stock, and mutates stock through the
// reserve/release operations.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       Money
	Stock       int
	CategoryID  uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
}

// ProductFilter has AND semantics across fields.
type ProductFilter struct {
	NamePattern string
	CategoryID  *uuid.UUID
	Page        int
	PerPage     int
}

func (f ProductFilter) Normalize() ProductFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = 10
	}
	return f
}
