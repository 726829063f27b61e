package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx so repositories can
// run inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WorkflowStores are the stores a multi-write workflow step touches.
type WorkflowStores struct {
	Tickets TicketRepository
	Users   UserRepository
}

// UnitOfWork runs fn so that either all of its writes land or none do.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(stores WorkflowStores) error) error
}

type pgUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork returns a UnitOfWork backed by a pgx transaction.
func NewUnitOfWork(pool *pgxpool.Pool) UnitOfWork {
	return &pgUnitOfWork{pool: pool}
}

func (u *pgUnitOfWork) Do(ctx context.Context, fn func(stores WorkflowStores) error) error {
	return pgx.BeginFunc(ctx, u.pool, func(tx pgx.Tx) error {
		return fn(WorkflowStores{
			Tickets: NewTicketRepository(tx),
			Users:   NewUserRepository(tx),
		})
	})
}
