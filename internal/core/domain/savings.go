package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsKind is a deposit or a withdrawal.
type SavingsKind string

const (
	SavingsDeposit    SavingsKind = "deposit"
	SavingsWithdrawal SavingsKind = "withdrawal"
)

// SavingsStatus is the lifecycle state of a savings request.
type SavingsStatus string

const (
	SavingsStatusPending  SavingsStatus = "pending"
	SavingsStatusApproved SavingsStatus = "approved"
	SavingsStatusRejected SavingsStatus = "rejected"
)

// CanTransition allows only pending -> approved|rejected.
func (s SavingsStatus) CanTransition(next SavingsStatus) bool {
	return s == SavingsStatusPending && (next == SavingsStatusApproved || next == SavingsStatusRejected)
}

// SavingsRequest moves money into or out of a member's balance.
type SavingsRequest struct {
	MemberID        string              `json:"member_id"`
	TxnID           string              `json:"txn_id"`
	Kind            SavingsKind         `json:"kind"`
	Amount          decimal.Decimal     `json:"amount"`
	Method          DisbursementMethod  `json:"method"`
	Account         DisbursementAccount `json:"account"`
	Status          SavingsStatus       `json:"status"`
	SubmittedAt     time.Time           `json:"submitted_at"`
	ResolvedAt      *time.Time          `json:"resolved_at,omitempty"`
	ResolvedBy      string              `json:"resolved_by,omitempty"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
}

// RequestKind maps the savings kind to its request kind.
func (s *SavingsRequest) RequestKind() RequestKind {
	if s.Kind == SavingsWithdrawal {
		return KindWithdrawal
	}
	return KindDeposit
}

// SignedAmount is the balance delta on approval.
func (s *SavingsRequest) SignedAmount() decimal.Decimal {
	if s.Kind == SavingsWithdrawal {
		return s.Amount.Neg()
	}
	return s.Amount
}

// Resolve moves the request to approved or rejected.
func (s *SavingsRequest) Resolve(next SavingsStatus, by, reason string, at time.Time) error {
	if !s.Status.CanTransition(next) {
		return &InvalidTransitionError{From: string(s.Status), To: string(next)}
	}
	s.Status = next
	s.ResolvedAt = &at
	s.ResolvedBy = by
	if next == SavingsStatusRejected {
		s.RejectionReason = reason
	}
	return nil
}
