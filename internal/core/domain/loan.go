package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan application.
type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "pending"
	LoanStatusApproved LoanStatus = "approved"
	LoanStatusRejected LoanStatus = "rejected"
	LoanStatusClosed   LoanStatus = "closed"
)

var loanTransitions = map[LoanStatus][]LoanStatus{
	LoanStatusPending:  {LoanStatusApproved, LoanStatusRejected},
	LoanStatusApproved: {LoanStatusClosed},
}

// CanTransition reports whether s may move to next.
func (s LoanStatus) CanTransition(next LoanStatus) bool {
	for _, allowed := range loanTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal returns true for rejected and closed loans.
func (s LoanStatus) IsTerminal() bool {
	return s == LoanStatusRejected || s == LoanStatusClosed
}

// InvalidTransitionError is returned when a lifecycle move is not allowed.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// Disbursement names the payout method and destination.
type Disbursement struct {
	Method  DisbursementMethod  `json:"method"`
	Account DisbursementAccount `json:"account"`
}

// LoanApplication is a member's request for a loan.
type LoanApplication struct {
	MemberID        string          `json:"member_id"`
	TxnID           string          `json:"txn_id"`
	LoanType        string          `json:"loan_type"`
	Amount          decimal.Decimal `json:"amount"`
	TermMonths      int             `json:"term_months"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	ProcessingFee   decimal.Decimal `json:"processing_fee"`
	SettingsVersion int64           `json:"settings_version"`
	Disbursement    Disbursement    `json:"disbursement"`
	Collateral      *Collateral     `json:"collateral,omitempty"`
	Status          LoanStatus      `json:"status"`
	SubmittedAt     time.Time       `json:"submitted_at"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
	ResolvedBy      string          `json:"resolved_by,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
}

// ReleaseAmount is the amount actually paid out: principal less processing fee.
func (a *LoanApplication) ReleaseAmount() decimal.Decimal {
	return a.Amount.Sub(a.ProcessingFee)
}

// CurrentLoan is an approved loan with an outstanding balance.
type CurrentLoan struct {
	MemberID           string          `json:"member_id"`
	TxnID              string          `json:"txn_id"`
	LoanType           string          `json:"loan_type"`
	Principal          decimal.Decimal `json:"principal"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	InterestAmount     decimal.Decimal `json:"interest_amount"`
	InterestPaid       decimal.Decimal `json:"interest_paid"`
	MonthlyPayment     decimal.Decimal `json:"monthly_payment"`
	TermMonths         int             `json:"term_months"`
	ReleaseAmount      decimal.Decimal `json:"release_amount"`
	Status             LoanStatus      `json:"status"`
	DueDate            time.Time       `json:"due_date"`
	ApprovedAt         time.Time       `json:"approved_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Approve moves a pending application to approved and materializes its
// CurrentLoan. Interest is flat over the whole term.
func (a *LoanApplication) Approve(by string, at time.Time) (*CurrentLoan, error) {
	if !a.Status.CanTransition(LoanStatusApproved) {
		return nil, &InvalidTransitionError{From: string(a.Status), To: string(LoanStatusApproved)}
	}
	if a.TermMonths <= 0 {
		return nil, fmt.Errorf("loan %s has no term", a.TxnID)
	}

	a.Status = LoanStatusApproved
	a.ResolvedAt = &at
	a.ResolvedBy = by

	interest := a.Amount.Mul(a.InterestRate).Div(decimal.NewFromInt(100)).Round(2)
	monthly := a.Amount.Add(interest).Div(decimal.NewFromInt(int64(a.TermMonths))).Round(2)

	return &CurrentLoan{
		MemberID:           a.MemberID,
		TxnID:              a.TxnID,
		LoanType:           a.LoanType,
		Principal:          a.Amount,
		OutstandingBalance: a.Amount,
		InterestRate:       a.InterestRate,
		InterestAmount:     interest,
		InterestPaid:       decimal.Zero,
		MonthlyPayment:     monthly,
		TermMonths:         a.TermMonths,
		ReleaseAmount:      a.ReleaseAmount(),
		Status:             LoanStatusApproved,
		DueDate:            at.AddDate(0, a.TermMonths, 0),
		ApprovedAt:         at,
		UpdatedAt:          at,
	}, nil
}

// Reject moves a pending application to rejected. It has no money effects.
func (a *LoanApplication) Reject(by, reason string, at time.Time) error {
	if !a.Status.CanTransition(LoanStatusRejected) {
		return &InvalidTransitionError{From: string(a.Status), To: string(LoanStatusRejected)}
	}
	a.Status = LoanStatusRejected
	a.ResolvedAt = &at
	a.ResolvedBy = by
	a.RejectionReason = reason
	return nil
}

// ApplyRepayment reduces the outstanding balance by the principal portion and
// records interest paid. closed is true once nothing remains outstanding.
func (l *CurrentLoan) ApplyRepayment(alloc PaymentAllocation, at time.Time) (closed bool, err error) {
	if l.Status != LoanStatusApproved {
		return false, &InvalidTransitionError{From: string(l.Status), To: string(LoanStatusClosed)}
	}
	l.OutstandingBalance = l.OutstandingBalance.Sub(alloc.Principal)
	l.InterestPaid = l.InterestPaid.Add(alloc.Interest)
	l.UpdatedAt = at
	if !l.OutstandingBalance.IsPositive() {
		l.OutstandingBalance = decimal.Zero
		l.Status = LoanStatusClosed
		return true, nil
	}
	return false, nil
}
