package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

const paymentColumns = `member_id, txn_id, loan_txn_id, amount::text, method, account, status, submitted_at`

// CreatePending inserts p unless the txn id was already used by the member.
func (r *PaymentRepo) CreatePending(ctx context.Context, p *domain.PaymentRequest) (bool, error) {
	account, err := json.Marshal(p.Account)
	if err != nil {
		return false, fmt.Errorf("marshal account: %w", err)
	}

	query := `INSERT INTO payment_requests (member_id, txn_id, loan_txn_id, amount, method, account, status, submitted_at)
		SELECT $1, $2, $3, $4::numeric, $5, $6, $7, $8
		WHERE NOT EXISTS (SELECT 1 FROM resolved_payment_requests WHERE member_id = $1 AND txn_id = $2)
		ON CONFLICT DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		p.MemberID, p.TxnID, p.LoanTxnID, money(p.Amount), p.Method, account, p.Status, p.SubmittedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert payment request: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetPending fetches a pending payment.
func (r *PaymentRepo) GetPending(ctx context.Context, memberID, txnID string) (*domain.PaymentRequest, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_requests WHERE member_id = $1 AND txn_id = $2`

	p, err := scanPayment(r.pool.QueryRow(ctx, query, memberID, txnID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pending payment: %w", err)
	}
	return p, nil
}

// ListPending lists pending payments oldest first.
func (r *PaymentRepo) ListPending(ctx context.Context, params ports.ListParams) ([]domain.PaymentRequest, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payment_requests`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payment requests: %w", err)
	}

	query := `SELECT ` + paymentColumns + ` FROM payment_requests ORDER BY submitted_at ASC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list payment requests: %w", err)
	}
	defer rows.Close()

	out := []domain.PaymentRequest{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan payment row: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate payment rows: %w", err)
	}
	return out, total, nil
}

// DeletePending removes a pending payment.
func (r *PaymentRepo) DeletePending(ctx context.Context, memberID, txnID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM payment_requests WHERE member_id = $1 AND txn_id = $2`, memberID, txnID)
	if err != nil {
		return fmt.Errorf("delete pending payment: %w", err)
	}
	return nil
}

// SaveResolved upserts the payment into the resolved table.
func (r *PaymentRepo) SaveResolved(ctx context.Context, p *domain.PaymentRequest) error {
	account, err := json.Marshal(p.Account)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	var allocation []byte
	if p.Allocation != nil {
		if allocation, err = json.Marshal(p.Allocation); err != nil {
			return fmt.Errorf("marshal allocation: %w", err)
		}
	}

	query := `INSERT INTO resolved_payment_requests (member_id, txn_id, loan_txn_id, amount, method, account, status,
		allocation, submitted_at, resolved_at, resolved_by, rejection_reason)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (member_id, txn_id) DO UPDATE SET
			status = EXCLUDED.status, allocation = EXCLUDED.allocation, resolved_at = EXCLUDED.resolved_at,
			resolved_by = EXCLUDED.resolved_by, rejection_reason = EXCLUDED.rejection_reason`

	_, err = r.pool.Exec(ctx, query,
		p.MemberID, p.TxnID, p.LoanTxnID, money(p.Amount), p.Method, account, p.Status,
		allocation, p.SubmittedAt, p.ResolvedAt, p.ResolvedBy, p.RejectionReason,
	)
	if err != nil {
		return fmt.Errorf("save resolved payment: %w", err)
	}
	return nil
}

// GetResolved fetches a resolved payment.
func (r *PaymentRepo) GetResolved(ctx context.Context, memberID, txnID string) (*domain.PaymentRequest, error) {
	query := `SELECT ` + paymentColumns + `, allocation, resolved_at, resolved_by, rejection_reason
		FROM resolved_payment_requests WHERE member_id = $1 AND txn_id = $2`

	var allocation []byte
	var resolvedAt *time.Time
	var resolvedBy, reason string
	p, err := scanPayment(r.pool.QueryRow(ctx, query, memberID, txnID), &allocation, &resolvedAt, &resolvedBy, &reason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resolved payment: %w", err)
	}
	if len(allocation) > 0 && string(allocation) != "null" {
		p.Allocation = &domain.PaymentAllocation{}
		if err := json.Unmarshal(allocation, p.Allocation); err != nil {
			return nil, fmt.Errorf("decode allocation: %w", err)
		}
	}
	p.ResolvedAt = resolvedAt
	p.ResolvedBy = resolvedBy
	p.RejectionReason = reason
	return p, nil
}

func scanPayment(row pgx.Row, extra ...any) (*domain.PaymentRequest, error) {
	p := &domain.PaymentRequest{}
	var amount string
	var account []byte
	dest := []any{&p.MemberID, &p.TxnID, &p.LoanTxnID, &amount, &p.Method, &account, &p.Status, &p.SubmittedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	var n numDecoder
	n.dec(&p.Amount, amount)
	if n.err != nil {
		return nil, n.err
	}
	if len(account) > 0 {
		if err := json.Unmarshal(account, &p.Account); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
	}
	return p, nil
}
