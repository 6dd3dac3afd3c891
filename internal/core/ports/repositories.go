package ports

import (
	"context"
	"time"

	"loan-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// All repositories return nil, nil when a record does not exist. A missing
// path is a valid empty state, not an error.

// MemberRepository reads members and applies balance increments.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	// AdjustBalance adds delta exactly once per effectKey. applied is false
	// when the key was already used.
	AdjustBalance(ctx context.Context, memberID, effectKey string, delta decimal.Decimal) (applied bool, err error)
}

// FundsRepository holds the shared liquidity pool.
type FundsRepository interface {
	Get(ctx context.Context) (decimal.Decimal, error)
	// Adjust adds delta exactly once per effectKey.
	Adjust(ctx context.Context, effectKey string, delta decimal.Decimal) (applied bool, err error)
}

// SettingsRepository stores the versioned rate and fee snapshot.
type SettingsRepository interface {
	// Get returns an empty snapshot when nothing is configured.
	Get(ctx context.Context) (*domain.LoanSettings, error)
	// Save stores s as the next version and returns it.
	Save(ctx context.Context, s *domain.LoanSettings) (*domain.LoanSettings, error)
}

// ListParams is offset pagination shared by list queries.
type ListParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the page.
func (p ListParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// LoanApplicationRepository covers the pending and resolved application locations.
type LoanApplicationRepository interface {
	// CreatePending inserts app unless its txn id is already used by that
	// member. created is false on collision.
	CreatePending(ctx context.Context, app *domain.LoanApplication) (created bool, err error)
	HasPending(ctx context.Context, memberID string) (bool, error)
	GetPending(ctx context.Context, memberID, txnID string) (*domain.LoanApplication, error)
	ListPending(ctx context.Context, params ListParams) ([]domain.LoanApplication, int64, error)
	DeletePending(ctx context.Context, memberID, txnID string) error
	SaveResolved(ctx context.Context, app *domain.LoanApplication) error
	GetResolved(ctx context.Context, memberID, txnID string) (*domain.LoanApplication, error)
}

// CurrentLoanRepository stores approved loans with an outstanding balance.
type CurrentLoanRepository interface {
	Get(ctx context.Context, memberID, txnID string) (*domain.CurrentLoan, error)
	ListByMember(ctx context.Context, memberID string) ([]domain.CurrentLoan, error)
	Save(ctx context.Context, loan *domain.CurrentLoan) error
	Delete(ctx context.Context, memberID, txnID string) error
	// ApplyRepayment reduces the stored outstanding balance by the
	// allocation's principal and adds its interest, once per effect key.
	// The loan is removed when nothing is left outstanding.
	ApplyRepayment(ctx context.Context, memberID, txnID, effectKey string, alloc domain.PaymentAllocation, at time.Time) (applied bool, err error)
}

// PaymentRepository covers pending and resolved repayment requests.
type PaymentRepository interface {
	CreatePending(ctx context.Context, p *domain.PaymentRequest) (created bool, err error)
	GetPending(ctx context.Context, memberID, txnID string) (*domain.PaymentRequest, error)
	ListPending(ctx context.Context, params ListParams) ([]domain.PaymentRequest, int64, error)
	DeletePending(ctx context.Context, memberID, txnID string) error
	SaveResolved(ctx context.Context, p *domain.PaymentRequest) error
	GetResolved(ctx context.Context, memberID, txnID string) (*domain.PaymentRequest, error)
}

// SavingsRepository covers pending and resolved deposits and withdrawals.
type SavingsRepository interface {
	CreatePending(ctx context.Context, s *domain.SavingsRequest) (created bool, err error)
	GetPending(ctx context.Context, kind domain.SavingsKind, memberID, txnID string) (*domain.SavingsRequest, error)
	ListPending(ctx context.Context, kind domain.SavingsKind, params ListParams) ([]domain.SavingsRequest, int64, error)
	DeletePending(ctx context.Context, kind domain.SavingsKind, memberID, txnID string) error
	SaveResolved(ctx context.Context, s *domain.SavingsRequest) error
}

// TransactionLogListParams filters a member's history.
type TransactionLogListParams struct {
	MemberID string
	Type     *domain.TransactionType
	ListParams
}

// TransactionLogRepository stores member-facing history entries.
type TransactionLogRepository interface {
	// Upsert writes the entry keyed by (type, member, txn id).
	Upsert(ctx context.Context, entry *domain.TransactionLogEntry) error
	List(ctx context.Context, params TransactionLogListParams) ([]domain.TransactionLogEntry, int64, error)
}

// ResolutionRepository persists progress markers.
type ResolutionRepository interface {
	Get(ctx context.Context, kind domain.RequestKind, memberID, txnID string) (*domain.Resolution, error)
	// Create inserts r. created is false if a marker already exists.
	Create(ctx context.Context, r *domain.Resolution) (created bool, err error)
	// Save updates progress fields of an existing marker.
	Save(ctx context.Context, r *domain.Resolution) error
	// ListIncomplete returns markers that are not completed, oldest first.
	ListIncomplete(ctx context.Context, limit int) ([]domain.Resolution, error)
	// ListIncompleteForLoan returns the member's unfinished payment markers
	// bound to the given current loan.
	ListIncompleteForLoan(ctx context.Context, memberID, loanTxnID string) ([]domain.Resolution, error)
}

// AuditRepository stores audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}
