package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RequestKind is the type of pending request staff can resolve.
type RequestKind string

const (
	KindLoan       RequestKind = "loan"
	KindPayment    RequestKind = "payment"
	KindDeposit    RequestKind = "deposit"
	KindWithdrawal RequestKind = "withdrawal"
)

// RequestKinds lists every resolvable kind.
var RequestKinds = []RequestKind{KindLoan, KindPayment, KindDeposit, KindWithdrawal}

// IsValid reports whether k is a known kind.
func (k RequestKind) IsValid() bool {
	switch k {
	case KindLoan, KindPayment, KindDeposit, KindWithdrawal:
		return true
	}
	return false
}

// TransactionType returns the log label for the kind.
func (k RequestKind) TransactionType() TransactionType {
	switch k {
	case KindLoan:
		return TransactionTypeLoan
	case KindPayment:
		return TransactionTypePayment
	case KindWithdrawal:
		return TransactionTypeWithdrawal
	default:
		return TransactionTypeDeposit
	}
}

// Decision is the staff verdict on a request.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// IsValid reports whether d is approve or reject.
func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// EntryStatus is the log status a decision produces.
func (d Decision) EntryStatus() EntryStatus {
	if d == DecisionApprove {
		return EntryStatusApproved
	}
	return EntryStatusRejected
}

// ResolutionStatus tracks progress through the write sequence.
type ResolutionStatus string

const (
	ResolutionInProgress ResolutionStatus = "in_progress"
	ResolutionCompleted  ResolutionStatus = "completed"
	ResolutionFailed     ResolutionStatus = "failed"
)

// Step is one write in the ordered resolution sequence.
type Step int

const (
	StepResolvedRecord Step = iota + 1
	StepTransactionLog
	StepMemberBalance
	StepFundsPool
	StepCurrentLoan
	StepDeletePending
)

var stepNames = map[Step]string{
	StepResolvedRecord: "resolved record",
	StepTransactionLog: "transaction log",
	StepMemberBalance:  "member balance",
	StepFundsPool:      "funds pool",
	StepCurrentLoan:    "current loan",
	StepDeletePending:  "pending record removal",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step %d", int(s))
}

// LoanAction is what step 5 does to the CurrentLoan.
type LoanAction string

const (
	LoanActionNone   LoanAction = ""
	LoanActionCreate LoanAction = "create"
	LoanActionUpdate LoanAction = "update"
	LoanActionRemove LoanAction = "remove"
)

// Effect is the fully computed outcome of a resolution. It is persisted
// before any write so an interrupted sequence resumes without recomputing.
type Effect struct {
	BalanceDelta decimal.Decimal     `json:"balance_delta"`
	PoolDelta    decimal.Decimal     `json:"pool_delta"`
	LoanAction   LoanAction          `json:"loan_action,omitempty"`
	Loan         *CurrentLoan        `json:"loan,omitempty"`
	Application  *LoanApplication    `json:"application,omitempty"`
	Payment      *PaymentRequest     `json:"payment,omitempty"`
	Savings      *SavingsRequest     `json:"savings,omitempty"`
	LogEntry     TransactionLogEntry `json:"log_entry"`
	Amount       decimal.Decimal     `json:"amount"`
	SubmittedAt  time.Time           `json:"submitted_at"`
}

// Steps lists the writes this effect needs, in order. Zero deltas and
// loan no-ops are skipped.
func (e *Effect) Steps() []Step {
	steps := []Step{StepResolvedRecord, StepTransactionLog}
	if !e.BalanceDelta.IsZero() {
		steps = append(steps, StepMemberBalance)
	}
	if !e.PoolDelta.IsZero() {
		steps = append(steps, StepFundsPool)
	}
	if e.LoanAction != LoanActionNone {
		steps = append(steps, StepCurrentLoan)
	}
	return append(steps, StepDeletePending)
}

// Resolution is the persisted progress marker for one request.
type Resolution struct {
	Kind        RequestKind      `json:"kind"`
	MemberID    string           `json:"member_id"`
	TxnID       string           `json:"txn_id"`
	Decision    Decision         `json:"decision"`
	Reason      string           `json:"reason,omitempty"`
	Status      ResolutionStatus `json:"status"`
	LastStep    Step             `json:"last_step"`
	FailedStep  Step             `json:"failed_step,omitempty"`
	LastError   string           `json:"last_error,omitempty"`
	Effect      Effect           `json:"effect"`
	ResolvedBy  string           `json:"resolved_by"`
	StartedAt   time.Time        `json:"started_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// ResolutionKey identifies a request across stores.
func ResolutionKey(kind RequestKind, memberID, txnID string) string {
	return string(kind) + ":" + memberID + ":" + txnID
}

// Key returns the resolution's identity.
func (r *Resolution) Key() string {
	return ResolutionKey(r.Kind, r.MemberID, r.TxnID)
}

// EffectKey scopes an idempotent increment to this resolution and step.
func (r *Resolution) EffectKey(step Step) string {
	return fmt.Sprintf("%s:%d", r.Key(), int(step))
}

// LoanTxnID is the current loan a payment resolution writes to, or "".
func (r *Resolution) LoanTxnID() string {
	if r.Kind == KindPayment && r.Effect.Payment != nil {
		return r.Effect.Payment.LoanTxnID
	}
	return ""
}

// IsComplete reports whether all writes are done.
func (r *Resolution) IsComplete() bool {
	return r.Status == ResolutionCompleted
}

// RemainingSteps returns the steps after LastStep.
func (r *Resolution) RemainingSteps() []Step {
	var out []Step
	for _, s := range r.Effect.Steps() {
		if s > r.LastStep {
			out = append(out, s)
		}
	}
	return out
}

// PendingRequest is a console row for any kind of pending request.
type PendingRequest struct {
	Kind        RequestKind     `json:"kind"`
	MemberID    string          `json:"member_id"`
	TxnID       string          `json:"txn_id"`
	Amount      decimal.Decimal `json:"amount"`
	SubmittedAt time.Time       `json:"submitted_at"`
}
