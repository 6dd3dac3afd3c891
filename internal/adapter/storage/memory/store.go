// Package memory is an in-process implementation of the storage ports. It
// backs the memory store driver and the service-level scenario tests.
package memory

import (
	"sync"

	"loan-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Operation names accepted by FailNext.
const (
	OpMemberAdjust       = "members.adjust_balance"
	OpFundsAdjust        = "funds.adjust"
	OpLoanSaveResolved   = "loans.save_resolved"
	OpLoanDeletePending  = "loans.delete_pending"
	OpCurrentSave        = "current_loans.save"
	OpCurrentDelete      = "current_loans.delete"
	OpCurrentRepay       = "current_loans.apply_repayment"
	OpPaymentSaveResolve = "payments.save_resolved"
	OpPaymentDelete      = "payments.delete_pending"
	OpSavingsSaveResolve = "savings.save_resolved"
	OpSavingsDelete      = "savings.delete_pending"
	OpLogUpsert          = "transaction_logs.upsert"
	OpResolutionSave     = "resolutions.save"
)

type memberTxnKey struct {
	memberID string
	txnID    string
}

type savingsKey struct {
	kind     domain.SavingsKind
	memberID string
	txnID    string
}

type logKey struct {
	typ      domain.TransactionType
	memberID string
	txnID    string
}

// Store holds every collection behind one mutex so increments are atomic.
type Store struct {
	mu sync.Mutex

	members        map[string]domain.Member
	funds          decimal.Decimal
	effects        map[string]struct{}
	settings       *domain.LoanSettings
	pendingLoans   map[memberTxnKey]domain.LoanApplication
	resolvedLoans  map[memberTxnKey]domain.LoanApplication
	currentLoans   map[memberTxnKey]domain.CurrentLoan
	pendingPays    map[memberTxnKey]domain.PaymentRequest
	resolvedPays   map[memberTxnKey]domain.PaymentRequest
	pendingSavings map[savingsKey]domain.SavingsRequest
	resolvedSaving map[savingsKey]domain.SavingsRequest
	logs           map[logKey]domain.TransactionLogEntry
	resolutions    map[string]domain.Resolution
	audits         []domain.AuditLog

	faults map[string]error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		members:        make(map[string]domain.Member),
		funds:          decimal.Zero,
		effects:        make(map[string]struct{}),
		pendingLoans:   make(map[memberTxnKey]domain.LoanApplication),
		resolvedLoans:  make(map[memberTxnKey]domain.LoanApplication),
		currentLoans:   make(map[memberTxnKey]domain.CurrentLoan),
		pendingPays:    make(map[memberTxnKey]domain.PaymentRequest),
		resolvedPays:   make(map[memberTxnKey]domain.PaymentRequest),
		pendingSavings: make(map[savingsKey]domain.SavingsRequest),
		resolvedSaving: make(map[savingsKey]domain.SavingsRequest),
		logs:           make(map[logKey]domain.TransactionLogEntry),
		resolutions:    make(map[string]domain.Resolution),
		faults:         make(map[string]error),
	}
}

// FailNext makes the next call of op return err.
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

// fault must be called with s.mu held.
func (s *Store) fault(op string) error {
	err, ok := s.faults[op]
	if !ok {
		return nil
	}
	delete(s.faults, op)
	return err
}

// Members returns the member repository view.
func (s *Store) Members() *MemberRepo { return &MemberRepo{s: s} }

// Funds returns the funds pool repository view.
func (s *Store) Funds() *FundsRepo { return &FundsRepo{s: s} }

// Settings returns the settings repository view.
func (s *Store) Settings() *SettingsRepo { return &SettingsRepo{s: s} }

// LoanApplications returns the loan application repository view.
func (s *Store) LoanApplications() *LoanApplicationRepo { return &LoanApplicationRepo{s: s} }

// CurrentLoans returns the current loan repository view.
func (s *Store) CurrentLoans() *CurrentLoanRepo { return &CurrentLoanRepo{s: s} }

// Payments returns the payment repository view.
func (s *Store) Payments() *PaymentRepo { return &PaymentRepo{s: s} }

// Savings returns the savings repository view.
func (s *Store) Savings() *SavingsRepo { return &SavingsRepo{s: s} }

// TransactionLogs returns the transaction log repository view.
func (s *Store) TransactionLogs() *TransactionLogRepo { return &TransactionLogRepo{s: s} }

// Resolutions returns the resolution marker repository view.
func (s *Store) Resolutions() *ResolutionRepo { return &ResolutionRepo{s: s} }

// Audits returns the audit repository view.
func (s *Store) Audits() *AuditRepo { return &AuditRepo{s: s} }

func page[T any](items []T, offset, size int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if size > 0 && offset+size < end {
		end = offset + size
	}
	return items[offset:end]
}
