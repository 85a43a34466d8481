package port

import "context"

// Repos is the set of repositories bound to one shared transaction.
type Repos interface {
	Orders() OrderRepository
	Products() ProductRepository
}

// TxRunner scopes fn to a single transaction: everything fn does through
// the provided repositories commits atomically, or rolls back entirely on
// error.
type TxRunner interface {
	InTx(ctx context.Context, fn func(repos Repos) error) error
}
