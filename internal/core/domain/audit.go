package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionLoanApplication AuditAction = "LOAN_APPLICATION"
	AuditActionPayment         AuditAction = "PAYMENT"
	AuditActionDeposit         AuditAction = "DEPOSIT"
	AuditActionWithdrawal      AuditAction = "WITHDRAWAL"
	AuditActionResolve         AuditAction = "RESOLVE"
	AuditActionReconcile       AuditAction = "RECONCILE"
	AuditActionUpdateSettings  AuditAction = "UPDATE_SETTINGS"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	ActorID      string      `json:"actor_id,omitempty"`
	ActorRole    Role        `json:"actor_role,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
