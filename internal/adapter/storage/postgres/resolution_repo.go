package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"loan-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ResolutionRepo implements ports.ResolutionRepository.
type ResolutionRepo struct {
	pool Pool
}

// NewResolutionRepo creates a new ResolutionRepo.
func NewResolutionRepo(pool Pool) *ResolutionRepo {
	return &ResolutionRepo{pool: pool}
}

const resolutionColumns = `kind, member_id, txn_id, decision, reason, status, last_step, failed_step,
	last_error, effect, resolved_by, started_at, updated_at, completed_at`

// Get fetches the marker for a request.
func (r *ResolutionRepo) Get(ctx context.Context, kind domain.RequestKind, memberID, txnID string) (*domain.Resolution, error) {
	query := `SELECT ` + resolutionColumns + ` FROM resolutions WHERE kind = $1 AND member_id = $2 AND txn_id = $3`

	res, err := scanResolution(r.pool.QueryRow(ctx, query, kind, memberID, txnID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resolution: %w", err)
	}
	return res, nil
}

// Create inserts a new marker. created is false when one already exists.
func (r *ResolutionRepo) Create(ctx context.Context, res *domain.Resolution) (bool, error) {
	effect, err := json.Marshal(res.Effect)
	if err != nil {
		return false, fmt.Errorf("marshal effect: %w", err)
	}

	query := `INSERT INTO resolutions (` + resolutionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (kind, member_id, txn_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		res.Kind, res.MemberID, res.TxnID, res.Decision, res.Reason, res.Status,
		int(res.LastStep), int(res.FailedStep), res.LastError, effect, res.ResolvedBy,
		res.StartedAt, res.UpdatedAt, res.CompletedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert resolution: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Save updates the progress fields of an existing marker.
func (r *ResolutionRepo) Save(ctx context.Context, res *domain.Resolution) error {
	query := `UPDATE resolutions SET status = $1, last_step = $2, failed_step = $3, last_error = $4,
		updated_at = $5, completed_at = $6
		WHERE kind = $7 AND member_id = $8 AND txn_id = $9`

	tag, err := r.pool.Exec(ctx, query,
		res.Status, int(res.LastStep), int(res.FailedStep), res.LastError, res.UpdatedAt, res.CompletedAt,
		res.Kind, res.MemberID, res.TxnID,
	)
	if err != nil {
		return fmt.Errorf("update resolution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("resolution not found: %s", res.Key())
	}
	return nil
}

// ListIncomplete returns unfinished markers oldest first.
func (r *ResolutionRepo) ListIncomplete(ctx context.Context, limit int) ([]domain.Resolution, error) {
	query := `SELECT ` + resolutionColumns + ` FROM resolutions
		WHERE status <> $1 ORDER BY started_at ASC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, domain.ResolutionCompleted, limit)
	if err != nil {
		return nil, fmt.Errorf("list incomplete resolutions: %w", err)
	}
	defer rows.Close()

	out := []domain.Resolution{}
	for rows.Next() {
		res, err := scanResolution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resolution row: %w", err)
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resolution rows: %w", err)
	}
	return out, nil
}

// ListIncompleteForLoan returns the member's unfinished payment markers
// whose effect targets loanTxnID.
func (r *ResolutionRepo) ListIncompleteForLoan(ctx context.Context, memberID, loanTxnID string) ([]domain.Resolution, error) {
	query := `SELECT ` + resolutionColumns + ` FROM resolutions
		WHERE kind = $1 AND member_id = $2 AND status <> $3
			AND effect -> 'payment' ->> 'loan_txn_id' = $4
		ORDER BY started_at ASC`

	rows, err := r.pool.Query(ctx, query, domain.KindPayment, memberID, domain.ResolutionCompleted, loanTxnID)
	if err != nil {
		return nil, fmt.Errorf("list incomplete loan resolutions: %w", err)
	}
	defer rows.Close()

	out := []domain.Resolution{}
	for rows.Next() {
		res, err := scanResolution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resolution row: %w", err)
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resolution rows: %w", err)
	}
	return out, nil
}

func scanResolution(row pgx.Row) (*domain.Resolution, error) {
	res := &domain.Resolution{}
	var lastStep, failedStep int
	var effect []byte
	err := row.Scan(
		&res.Kind, &res.MemberID, &res.TxnID, &res.Decision, &res.Reason, &res.Status,
		&lastStep, &failedStep, &res.LastError, &effect, &res.ResolvedBy,
		&res.StartedAt, &res.UpdatedAt, &res.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	res.LastStep = domain.Step(lastStep)
	res.FailedStep = domain.Step(failedStep)
	if err := json.Unmarshal(effect, &res.Effect); err != nil {
		return nil, fmt.Errorf("decode effect: %w", err)
	}
	return res, nil
}
