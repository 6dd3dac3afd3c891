package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType labels a transaction log entry.
type TransactionType string

const (
	TransactionTypeLoan       TransactionType = "Loan"
	TransactionTypePayment    TransactionType = "Payment"
	TransactionTypeDeposit    TransactionType = "Deposit"
	TransactionTypeWithdrawal TransactionType = "Withdrawal"
)

// EntryStatus mirrors the status of the request the entry describes.
type EntryStatus string

const (
	EntryStatusPending  EntryStatus = "pending"
	EntryStatusApproved EntryStatus = "approved"
	EntryStatusRejected EntryStatus = "rejected"
)

// TransactionLogEntry is the member-facing history row. There is exactly one
// per (type, member, txn id); later writes replace earlier ones.
type TransactionLogEntry struct {
	Type        TransactionType `json:"type"`
	MemberID    string          `json:"member_id"`
	TxnID       string          `json:"txn_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      EntryStatus     `json:"status"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
