package domain

import "github.com/google/uuid"

// OrderFilter has AND semantics across fields, OR semantics within each
// field slice. An empty filter selects all orders (admin listing).
type OrderFilter struct {
	IDs      []uuid.UUID
	OwnerIDs []uuid.UUID
	Statuses []OrderStatus
}
