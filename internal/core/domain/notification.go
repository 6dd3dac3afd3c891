package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Notification is sent after a request has been resolved.
type Notification struct {
	MemberID    string          `json:"member_id"`
	TxnID       string          `json:"txn_id"`
	Kind        RequestKind     `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Decision    Decision        `json:"decision"`
	Reason      string          `json:"reason,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
	ResolvedAt  time.Time       `json:"resolved_at"`
}

// NotificationFor builds the notification for a completed resolution.
func NotificationFor(r *Resolution) Notification {
	resolvedAt := r.UpdatedAt
	if r.CompletedAt != nil {
		resolvedAt = *r.CompletedAt
	}
	return Notification{
		MemberID:    r.MemberID,
		TxnID:       r.TxnID,
		Kind:        r.Kind,
		Amount:      r.Effect.Amount,
		Decision:    r.Decision,
		Reason:      r.Reason,
		SubmittedAt: r.Effect.SubmittedAt,
		ResolvedAt:  resolvedAt,
	}
}
