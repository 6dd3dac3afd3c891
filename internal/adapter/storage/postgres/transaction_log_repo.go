package postgres

import (
	"context"
	"fmt"
	"strings"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
)

// TransactionLogRepo implements ports.TransactionLogRepository.
type TransactionLogRepo struct {
	pool Pool
}

// NewTransactionLogRepo creates a new TransactionLogRepo.
func NewTransactionLogRepo(pool Pool) *TransactionLogRepo {
	return &TransactionLogRepo{pool: pool}
}

// Upsert writes the entry for (type, member, txn id). created_at is kept from
// the first write.
func (r *TransactionLogRepo) Upsert(ctx context.Context, e *domain.TransactionLogEntry) error {
	query := `INSERT INTO transaction_logs (type, member_id, txn_id, amount, status, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8)
		ON CONFLICT (type, member_id, txn_id) DO UPDATE SET
			amount = EXCLUDED.amount, status = EXCLUDED.status,
			description = EXCLUDED.description, updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query,
		e.Type, e.MemberID, e.TxnID, money(e.Amount), e.Status, e.Description, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert transaction log: %w", err)
	}
	return nil
}

// List fetches a member's entries with optional type filter, newest first.
func (r *TransactionLogRepo) List(ctx context.Context, params ports.TransactionLogListParams) ([]domain.TransactionLogEntry, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("member_id = $%d", argIdx))
	args = append(args, params.MemberID)
	argIdx++

	if params.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, *params.Type)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	// Count total
	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transaction_logs %s", where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transaction logs: %w", err)
	}

	// Fetch page
	dataQuery := fmt.Sprintf(`SELECT type, member_id, txn_id, amount::text, status, description, created_at, updated_at
		FROM transaction_logs %s ORDER BY created_at DESC, txn_id DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, params.Offset())

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transaction logs: %w", err)
	}
	defer rows.Close()

	entries := []domain.TransactionLogEntry{}
	for rows.Next() {
		var e domain.TransactionLogEntry
		var amount string
		if err := rows.Scan(&e.Type, &e.MemberID, &e.TxnID, &amount, &e.Status, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan transaction log row: %w", err)
		}
		var n numDecoder
		n.dec(&e.Amount, amount)
		if n.err != nil {
			return nil, 0, n.err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transaction log rows: %w", err)
	}
	return entries, total, nil
}
