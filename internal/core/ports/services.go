package ports

import (
	"context"
	"time"

	"loan-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// SignatureService signs outbound notification bodies. The signature
// header carries its own timestamp.
type SignatureService interface {
	SignNotification(secret string, timestamp int64, body []byte) string
	VerifyNotification(secret, header string, body []byte, now time.Time, tolerance time.Duration) error
}

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Name() string
}

// TokenService issues and validates bearer tokens carrying a MemberContext.
type TokenService interface {
	Generate(mc domain.MemberContext) (string, time.Time, error)
	Validate(tokenString string) (*domain.MemberContext, error)
}

// ResolutionCache is the fast-path lookup of completed resolutions.
type ResolutionCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil when absent
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Lease is a held lock.
type Lease interface {
	Release(ctx context.Context) error
}

// Locker serializes work on a key across processes.
type Locker interface {
	// Acquire waits until the key is free or the wait budget runs out.
	Acquire(ctx context.Context, key string) (Lease, error)
}

// Notifier hands a resolved-request notification to the dispatch pipeline.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// NotificationDeliverer sends one notification to the external endpoint.
type NotificationDeliverer interface {
	Deliver(ctx context.Context, n domain.Notification) error
}

// AuditService records audit entries without blocking the caller.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// --- Service Ports (Business Logic) ---

// LoanApplicationInput is a member's loan request as submitted.
type LoanApplicationInput struct {
	LoanType        string
	TermMonths      int
	Amount          decimal.Decimal
	Method          domain.DisbursementMethod
	Collateral      *domain.Collateral
	SettingsVersion int64
}

// LoanOptions is what a member sees when opening the application form.
type LoanOptions struct {
	Settings           *domain.LoanSettings
	LoanType           string
	Term               int
	TermAvailable      bool
	Balance            decimal.Decimal
	LoanableAmount     decimal.Decimal
	RequiresCollateral bool
}

// SubmitResult is returned from any submission.
type SubmitResult struct {
	TxnID       string    `json:"txn_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// CurrentLoanView pairs a current loan with what is due on it today.
type CurrentLoanView struct {
	Loan  domain.CurrentLoan `json:"loan"`
	Quote domain.LoanQuote   `json:"quote"`
}

// LoanService handles loan applications and current loans.
type LoanService interface {
	Options(ctx context.Context, mc domain.MemberContext, loanType string, previousTerm int, amount decimal.Decimal) (*LoanOptions, error)
	// Submit validates against settings, which must be the snapshot the
	// member was shown. A nil snapshot is loaded from the store.
	Submit(ctx context.Context, mc domain.MemberContext, in LoanApplicationInput, settings *domain.LoanSettings) (*SubmitResult, error)
	ListCurrent(ctx context.Context, mc domain.MemberContext) ([]CurrentLoanView, error)
}

// PaymentInput is a member's repayment request.
type PaymentInput struct {
	LoanTxnID string
	Amount    decimal.Decimal
	Method    domain.DisbursementMethod
}

// PaymentService handles repayment requests and amount-due quotes.
type PaymentService interface {
	Submit(ctx context.Context, mc domain.MemberContext, in PaymentInput) (*SubmitResult, error)
	Quote(ctx context.Context, mc domain.MemberContext, loanTxnID string) (*domain.LoanQuote, error)
}

// SavingsInput is a deposit or withdrawal request.
type SavingsInput struct {
	Kind   domain.SavingsKind
	Amount decimal.Decimal
	Method domain.DisbursementMethod
}

// SavingsService handles deposit and withdrawal requests.
type SavingsService interface {
	Submit(ctx context.Context, mc domain.MemberContext, in SavingsInput) (*SubmitResult, error)
}

// SettingsService reads and replaces the loan configuration snapshot.
type SettingsService interface {
	Current(ctx context.Context) (*domain.LoanSettings, error)
	Update(ctx context.Context, staff domain.MemberContext, s domain.LoanSettings) (*domain.LoanSettings, error)
}

// ResolveRequest is a staff decision on one pending request.
type ResolveRequest struct {
	Staff    domain.MemberContext
	Kind     domain.RequestKind
	MemberID string
	TxnID    string
	Decision domain.Decision
	Reason   string
}

// LedgerCoordinator applies resolutions as an ordered, resumable write sequence.
type LedgerCoordinator interface {
	Resolve(ctx context.Context, req ResolveRequest) (*domain.Resolution, error)
	Resume(ctx context.Context, r *domain.Resolution) (*domain.Resolution, error)
}

// ReconcileFailure is one marker that could not be completed.
type ReconcileFailure struct {
	Key   string `json:"key"`
	Step  string `json:"step"`
	Error string `json:"error"`
}

// ReconcileReport summarizes a reconciliation pass.
type ReconcileReport struct {
	Scanned   int                `json:"scanned"`
	Completed int                `json:"completed"`
	Failed    []ReconcileFailure `json:"failed"`
}

// ReconciliationService resumes partially applied resolutions.
type ReconciliationService interface {
	ListIncomplete(ctx context.Context, limit int) ([]domain.Resolution, error)
	Run(ctx context.Context, limit int) (*ReconcileReport, error)
}

// ReportingService serves read-only console and history views.
type ReportingService interface {
	FundsPool(ctx context.Context) (decimal.Decimal, error)
	ListTransactions(ctx context.Context, params TransactionLogListParams) ([]domain.TransactionLogEntry, int64, error)
	ListPending(ctx context.Context, kind domain.RequestKind, params ListParams) ([]domain.PendingRequest, int64, error)
}
