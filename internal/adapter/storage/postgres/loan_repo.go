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

// LoanApplicationRepo implements ports.LoanApplicationRepository.
type LoanApplicationRepo struct {
	pool Pool
}

// NewLoanApplicationRepo creates a new LoanApplicationRepo.
func NewLoanApplicationRepo(pool Pool) *LoanApplicationRepo {
	return &LoanApplicationRepo{pool: pool}
}

const applicationColumns = `member_id, txn_id, loan_type, amount::text, term_months, interest_rate::text,
	processing_fee::text, settings_version, disbursement, collateral, status, submitted_at`

// CreatePending inserts app. Nothing is written when the member already has a
// pending application or has used the txn id before.
func (r *LoanApplicationRepo) CreatePending(ctx context.Context, app *domain.LoanApplication) (bool, error) {
	disbursement, collateral, err := encodeApplication(app)
	if err != nil {
		return false, err
	}

	query := `INSERT INTO loan_applications (member_id, txn_id, loan_type, amount, term_months, interest_rate,
		processing_fee, settings_version, disbursement, collateral, status, submitted_at)
		SELECT $1, $2, $3, $4::numeric, $5, $6::numeric, $7::numeric, $8, $9, $10, $11, $12
		WHERE NOT EXISTS (SELECT 1 FROM resolved_loan_applications WHERE member_id = $1 AND txn_id = $2)
		ON CONFLICT DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		app.MemberID, app.TxnID, app.LoanType, money(app.Amount), app.TermMonths,
		app.InterestRate.String(), money(app.ProcessingFee), app.SettingsVersion,
		disbursement, collateral, app.Status, app.SubmittedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert loan application: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// HasPending reports whether the member has a pending application.
func (r *LoanApplicationRepo) HasPending(ctx context.Context, memberID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM loan_applications WHERE member_id = $1)`, memberID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pending loan application: %w", err)
	}
	return exists, nil
}

// GetPending fetches a pending application.
func (r *LoanApplicationRepo) GetPending(ctx context.Context, memberID, txnID string) (*domain.LoanApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM loan_applications WHERE member_id = $1 AND txn_id = $2`

	app, err := scanApplication(r.pool.QueryRow(ctx, query, memberID, txnID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pending loan application: %w", err)
	}
	return app, nil
}

// ListPending lists pending applications oldest first.
func (r *LoanApplicationRepo) ListPending(ctx context.Context, params ports.ListParams) ([]domain.LoanApplication, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM loan_applications`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count loan applications: %w", err)
	}

	query := `SELECT ` + applicationColumns + ` FROM loan_applications
		ORDER BY submitted_at ASC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list loan applications: %w", err)
	}
	defer rows.Close()

	apps := []domain.LoanApplication{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan loan application row: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate loan application rows: %w", err)
	}
	return apps, total, nil
}

// DeletePending removes a pending application. Deleting a missing row is not an error.
func (r *LoanApplicationRepo) DeletePending(ctx context.Context, memberID, txnID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM loan_applications WHERE member_id = $1 AND txn_id = $2`, memberID, txnID)
	if err != nil {
		return fmt.Errorf("delete pending loan application: %w", err)
	}
	return nil
}

// SaveResolved upserts the application into the resolved table.
func (r *LoanApplicationRepo) SaveResolved(ctx context.Context, app *domain.LoanApplication) error {
	disbursement, collateral, err := encodeApplication(app)
	if err != nil {
		return err
	}

	query := `INSERT INTO resolved_loan_applications (member_id, txn_id, loan_type, amount, term_months, interest_rate,
		processing_fee, settings_version, disbursement, collateral, status, submitted_at, resolved_at, resolved_by, rejection_reason)
		VALUES ($1, $2, $3, $4::numeric, $5, $6::numeric, $7::numeric, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (member_id, txn_id) DO UPDATE SET
			status = EXCLUDED.status, resolved_at = EXCLUDED.resolved_at,
			resolved_by = EXCLUDED.resolved_by, rejection_reason = EXCLUDED.rejection_reason`

	_, err = r.pool.Exec(ctx, query,
		app.MemberID, app.TxnID, app.LoanType, money(app.Amount), app.TermMonths,
		app.InterestRate.String(), money(app.ProcessingFee), app.SettingsVersion,
		disbursement, collateral, app.Status, app.SubmittedAt,
		app.ResolvedAt, app.ResolvedBy, app.RejectionReason,
	)
	if err != nil {
		return fmt.Errorf("save resolved loan application: %w", err)
	}
	return nil
}

// GetResolved fetches a resolved application.
func (r *LoanApplicationRepo) GetResolved(ctx context.Context, memberID, txnID string) (*domain.LoanApplication, error) {
	query := `SELECT ` + applicationColumns + `, resolved_at, resolved_by, rejection_reason
		FROM resolved_loan_applications WHERE member_id = $1 AND txn_id = $2`

	row := r.pool.QueryRow(ctx, query, memberID, txnID)
	var resolvedAt *time.Time
	var resolvedBy, reason string
	app, err := scanApplication(row, &resolvedAt, &resolvedBy, &reason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resolved loan application: %w", err)
	}
	app.ResolvedAt = resolvedAt
	app.ResolvedBy = resolvedBy
	app.RejectionReason = reason
	return app, nil
}

func encodeApplication(app *domain.LoanApplication) (disbursement, collateral []byte, err error) {
	disbursement, err = json.Marshal(app.Disbursement)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal disbursement: %w", err)
	}
	if app.Collateral != nil {
		collateral, err = json.Marshal(app.Collateral)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal collateral: %w", err)
		}
	}
	return disbursement, collateral, nil
}

// scanApplication reads applicationColumns followed by any extra destinations.
func scanApplication(row pgx.Row, extra ...any) (*domain.LoanApplication, error) {
	app := &domain.LoanApplication{}
	var amount, rate, fee string
	var disbursement, collateral []byte
	dest := []any{
		&app.MemberID, &app.TxnID, &app.LoanType, &amount, &app.TermMonths, &rate,
		&fee, &app.SettingsVersion, &disbursement, &collateral, &app.Status, &app.SubmittedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	var n numDecoder
	n.dec(&app.Amount, amount)
	n.dec(&app.InterestRate, rate)
	n.dec(&app.ProcessingFee, fee)
	if n.err != nil {
		return nil, n.err
	}
	if err := json.Unmarshal(disbursement, &app.Disbursement); err != nil {
		return nil, fmt.Errorf("decode disbursement: %w", err)
	}
	if len(collateral) > 0 && string(collateral) != "null" {
		app.Collateral = &domain.Collateral{}
		if err := json.Unmarshal(collateral, app.Collateral); err != nil {
			return nil, fmt.Errorf("decode collateral: %w", err)
		}
	}
	return app, nil
}

// CurrentLoanRepo implements ports.CurrentLoanRepository.
type CurrentLoanRepo struct {
	pool Pool
}

// NewCurrentLoanRepo creates a new CurrentLoanRepo.
func NewCurrentLoanRepo(pool Pool) *CurrentLoanRepo {
	return &CurrentLoanRepo{pool: pool}
}

const currentLoanColumns = `member_id, txn_id, loan_type, principal::text, outstanding_balance::text,
	interest_rate::text, interest_amount::text, interest_paid::text, monthly_payment::text,
	term_months, release_amount::text, status, due_date, approved_at, updated_at`

// Get fetches one current loan.
func (r *CurrentLoanRepo) Get(ctx context.Context, memberID, txnID string) (*domain.CurrentLoan, error) {
	query := `SELECT ` + currentLoanColumns + ` FROM current_loans WHERE member_id = $1 AND txn_id = $2`

	loan, err := scanCurrentLoan(r.pool.QueryRow(ctx, query, memberID, txnID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get current loan: %w", err)
	}
	return loan, nil
}

// ListByMember lists a member's current loans by approval time.
func (r *CurrentLoanRepo) ListByMember(ctx context.Context, memberID string) ([]domain.CurrentLoan, error) {
	query := `SELECT ` + currentLoanColumns + ` FROM current_loans WHERE member_id = $1 ORDER BY approved_at ASC`

	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("list current loans: %w", err)
	}
	defer rows.Close()

	loans := []domain.CurrentLoan{}
	for rows.Next() {
		loan, err := scanCurrentLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan current loan row: %w", err)
		}
		loans = append(loans, *loan)
	}
	return loans, rows.Err()
}

// Save upserts a current loan.
func (r *CurrentLoanRepo) Save(ctx context.Context, l *domain.CurrentLoan) error {
	query := `INSERT INTO current_loans (member_id, txn_id, loan_type, principal, outstanding_balance,
		interest_rate, interest_amount, interest_paid, monthly_payment, term_months, release_amount,
		status, due_date, approved_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7::numeric, $8::numeric, $9::numeric,
		$10, $11::numeric, $12, $13, $14, $15)
		ON CONFLICT (member_id, txn_id) DO UPDATE SET
			outstanding_balance = EXCLUDED.outstanding_balance, interest_paid = EXCLUDED.interest_paid,
			status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query,
		l.MemberID, l.TxnID, l.LoanType, money(l.Principal), money(l.OutstandingBalance),
		l.InterestRate.String(), money(l.InterestAmount), money(l.InterestPaid), money(l.MonthlyPayment),
		l.TermMonths, money(l.ReleaseAmount), l.Status, l.DueDate, l.ApprovedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save current loan: %w", err)
	}
	return nil
}

// Delete removes a current loan. Deleting a missing row is not an error.
func (r *CurrentLoanRepo) Delete(ctx context.Context, memberID, txnID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM current_loans WHERE member_id = $1 AND txn_id = $2`, memberID, txnID)
	if err != nil {
		return fmt.Errorf("delete current loan: %w", err)
	}
	return nil
}

// ApplyRepayment subtracts the allocated principal from the stored balance
// and adds the allocated interest, once per effect key. A loan left with
// nothing outstanding is deleted in the same transaction.
func (r *CurrentLoanRepo) ApplyRepayment(ctx context.Context, memberID, txnID, effectKey string, alloc domain.PaymentAllocation, at time.Time) (bool, error) {
	applied := false
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		ok, err := claimEffect(ctx, tx, effectKey)
		if err != nil || !ok {
			return err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE current_loans SET
				outstanding_balance = GREATEST(outstanding_balance - $1::numeric, 0),
				interest_paid = interest_paid + $2::numeric,
				updated_at = $3
			WHERE member_id = $4 AND txn_id = $5`,
			money(alloc.Principal), money(alloc.Interest), at, memberID, txnID,
		)
		if err != nil {
			return fmt.Errorf("apply repayment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("current loan not found: %s/%s", memberID, txnID)
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM current_loans WHERE member_id = $1 AND txn_id = $2 AND outstanding_balance <= 0`,
			memberID, txnID,
		); err != nil {
			return fmt.Errorf("close current loan: %w", err)
		}
		applied = true
		return nil
	})
	return applied, err
}

func scanCurrentLoan(row pgx.Row) (*domain.CurrentLoan, error) {
	l := &domain.CurrentLoan{}
	var principal, outstanding, rate, interest, paid, monthly, release string
	err := row.Scan(
		&l.MemberID, &l.TxnID, &l.LoanType, &principal, &outstanding,
		&rate, &interest, &paid, &monthly,
		&l.TermMonths, &release, &l.Status, &l.DueDate, &l.ApprovedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	var n numDecoder
	n.dec(&l.Principal, principal)
	n.dec(&l.OutstandingBalance, outstanding)
	n.dec(&l.InterestRate, rate)
	n.dec(&l.InterestAmount, interest)
	n.dec(&l.InterestPaid, paid)
	n.dec(&l.MonthlyPayment, monthly)
	n.dec(&l.ReleaseAmount, release)
	if n.err != nil {
		return nil, n.err
	}
	return l, nil
}
