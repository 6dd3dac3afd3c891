package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a repayment request.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// CanTransition allows only pending -> approved|rejected.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	return s == PaymentStatusPending && (next == PaymentStatusApproved || next == PaymentStatusRejected)
}

// PaymentRequest is a member's repayment, optionally bound to a CurrentLoan.
type PaymentRequest struct {
	MemberID        string              `json:"member_id"`
	TxnID           string              `json:"txn_id"`
	LoanTxnID       string              `json:"loan_txn_id,omitempty"`
	Amount          decimal.Decimal     `json:"amount"`
	Method          DisbursementMethod  `json:"method"`
	Account         DisbursementAccount `json:"account"`
	Status          PaymentStatus       `json:"status"`
	Allocation      *PaymentAllocation  `json:"allocation,omitempty"`
	SubmittedAt     time.Time           `json:"submitted_at"`
	ResolvedAt      *time.Time          `json:"resolved_at,omitempty"`
	ResolvedBy      string              `json:"resolved_by,omitempty"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
}

// IsLoanBound reports whether the payment services a specific loan.
func (p *PaymentRequest) IsLoanBound() bool {
	return p.LoanTxnID != ""
}

// Approve records the allocation and marks the payment approved.
func (p *PaymentRequest) Approve(alloc PaymentAllocation, by string, at time.Time) error {
	if !p.Status.CanTransition(PaymentStatusApproved) {
		return &InvalidTransitionError{From: string(p.Status), To: string(PaymentStatusApproved)}
	}
	p.Status = PaymentStatusApproved
	p.Allocation = &alloc
	p.ResolvedAt = &at
	p.ResolvedBy = by
	return nil
}

// Reject marks the payment rejected.
func (p *PaymentRequest) Reject(by, reason string, at time.Time) error {
	if !p.Status.CanTransition(PaymentStatusRejected) {
		return &InvalidTransitionError{From: string(p.Status), To: string(PaymentStatusRejected)}
	}
	p.Status = PaymentStatusRejected
	p.ResolvedAt = &at
	p.ResolvedBy = by
	p.RejectionReason = reason
	return nil
}
