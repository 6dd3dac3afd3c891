package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// SavingsRepo implements ports.SavingsRepository. Deposits and withdrawals
// share one table keyed by kind.
type SavingsRepo struct {
	pool Pool
}

// NewSavingsRepo creates a new SavingsRepo.
func NewSavingsRepo(pool Pool) *SavingsRepo {
	return &SavingsRepo{pool: pool}
}

const savingsColumns = `kind, member_id, txn_id, amount::text, method, account, status, submitted_at`

func (r *SavingsRepo) CreatePending(ctx context.Context, s *domain.SavingsRequest) (bool, error) {
	account, err := json.Marshal(s.Account)
	if err != nil {
		return false, fmt.Errorf("marshal account: %w", err)
	}

	query := `INSERT INTO savings_requests (kind, member_id, txn_id, amount, method, account, status, submitted_at)
		SELECT $1, $2, $3, $4::numeric, $5, $6, $7, $8
		WHERE NOT EXISTS (SELECT 1 FROM resolved_savings_requests WHERE kind = $1 AND member_id = $2 AND txn_id = $3)
		ON CONFLICT DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		s.Kind, s.MemberID, s.TxnID, money(s.Amount), s.Method, account, s.Status, s.SubmittedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert savings request: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SavingsRepo) GetPending(ctx context.Context, kind domain.SavingsKind, memberID, txnID string) (*domain.SavingsRequest, error) {
	query := `SELECT ` + savingsColumns + ` FROM savings_requests WHERE kind = $1 AND member_id = $2 AND txn_id = $3`

	s, err := scanSavings(r.pool.QueryRow(ctx, query, kind, memberID, txnID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pending savings request: %w", err)
	}
	return s, nil
}

func (r *SavingsRepo) ListPending(ctx context.Context, kind domain.SavingsKind, params ports.ListParams) ([]domain.SavingsRequest, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM savings_requests WHERE kind = $1`, kind).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count savings requests: %w", err)
	}

	query := `SELECT ` + savingsColumns + ` FROM savings_requests WHERE kind = $1
		ORDER BY submitted_at ASC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, kind, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list savings requests: %w", err)
	}
	defer rows.Close()

	out := []domain.SavingsRequest{}
	for rows.Next() {
		s, err := scanSavings(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan savings row: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate savings rows: %w", err)
	}
	return out, total, nil
}

func (r *SavingsRepo) DeletePending(ctx context.Context, kind domain.SavingsKind, memberID, txnID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM savings_requests WHERE kind = $1 AND member_id = $2 AND txn_id = $3`, kind, memberID, txnID)
	if err != nil {
		return fmt.Errorf("delete pending savings request: %w", err)
	}
	return nil
}

func (r *SavingsRepo) SaveResolved(ctx context.Context, s *domain.SavingsRequest) error {
	account, err := json.Marshal(s.Account)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}

	query := `INSERT INTO resolved_savings_requests (kind, member_id, txn_id, amount, method, account, status,
		submitted_at, resolved_at, resolved_by, rejection_reason)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (kind, member_id, txn_id) DO UPDATE SET
			status = EXCLUDED.status, resolved_at = EXCLUDED.resolved_at,
			resolved_by = EXCLUDED.resolved_by, rejection_reason = EXCLUDED.rejection_reason`

	_, err = r.pool.Exec(ctx, query,
		s.Kind, s.MemberID, s.TxnID, money(s.Amount), s.Method, account, s.Status,
		s.SubmittedAt, s.ResolvedAt, s.ResolvedBy, s.RejectionReason,
	)
	if err != nil {
		return fmt.Errorf("save resolved savings request: %w", err)
	}
	return nil
}

func scanSavings(row pgx.Row) (*domain.SavingsRequest, error) {
	s := &domain.SavingsRequest{}
	var amount string
	var account []byte
	if err := row.Scan(&s.Kind, &s.MemberID, &s.TxnID, &amount, &s.Method, &account, &s.Status, &s.SubmittedAt); err != nil {
		return nil, err
	}
	var n numDecoder
	n.dec(&s.Amount, amount)
	if n.err != nil {
		return nil, n.err
	}
	if len(account) > 0 {
		if err := json.Unmarshal(account, &s.Account); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
	}
	return s, nil
}
