package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// FundsRepo implements ports.FundsRepository over the single-row funds_pool table.
type FundsRepo struct {
	pool Pool
}

// NewFundsRepo creates a new FundsRepo.
func NewFundsRepo(pool Pool) *FundsRepo {
	return &FundsRepo{pool: pool}
}

// Get returns the pool amount, zero when the row does not exist yet.
func (r *FundsRepo) Get(ctx context.Context) (decimal.Decimal, error) {
	var raw string
	err := r.pool.QueryRow(ctx, `SELECT amount::text FROM funds_pool WHERE id = 1`).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("get funds pool: %w", err)
	}
	var n numDecoder
	var amount decimal.Decimal
	n.dec(&amount, raw)
	return amount, n.err
}

// Adjust adds delta to the pool once per effect key.
func (r *FundsRepo) Adjust(ctx context.Context, effectKey string, delta decimal.Decimal) (bool, error) {
	applied := false
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		ok, err := claimEffect(ctx, tx, effectKey)
		if err != nil || !ok {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO funds_pool (id, amount, updated_at) VALUES (1, $1::numeric, NOW())
			ON CONFLICT (id) DO UPDATE SET amount = funds_pool.amount + EXCLUDED.amount, updated_at = NOW()`,
			money(delta),
		)
		if err != nil {
			return fmt.Errorf("adjust funds pool: %w", err)
		}
		applied = true
		return nil
	})
	return applied, err
}
