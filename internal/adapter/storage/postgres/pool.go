package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// Pool is the subset of *pgxpool.Pool the repositories use. pgxmock pools
// satisfy it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// withTx runs fn inside a transaction, committing on success and rolling back
// when fn fails.
func withTx(ctx context.Context, pool Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Money columns are NUMERIC. They are written as text with an explicit cast
// and read back through ::text so no precision passes through float64.
func money(d decimal.Decimal) string {
	return d.Round(2).String()
}

type numDecoder struct {
	err error
}

func (n *numDecoder) dec(dst *decimal.Decimal, raw string) {
	if n.err != nil {
		return
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		n.err = fmt.Errorf("parse numeric %q: %w", raw, err)
		return
	}
	*dst = v
}
