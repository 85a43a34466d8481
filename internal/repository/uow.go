package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/digimarket/backend/internal/port"
)

type txRepos struct {
	tx pgx.Tx
}

func (t txRepos) Orders() port.OrderRepository { return NewOrderWithTx(t.tx) }

func (t txRepos) Products() port.ProductRepository { return NewProductWithTx(t.tx) }

type unitOfWork struct {
	pool *pgxpool.Pool
}

func NewUnitOfWork(pool *pgxpool.Pool) port.TxRunner {
	return &unitOfWork{pool: pool}
}

func (u *unitOfWork) InTx(ctx context.Context, fn func(repos port.Repos) error) error {
	_, err := WithTx(ctx, u.pool, func(tx pgx.Tx) (struct{}, error) {
		return struct{}{}, fn(txRepos{tx: tx})
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}
	return nil
}
