package middleware

import (
	"encoding/json"
	"net/http"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// CtxResourceID is set by handlers to the id of the record a request created.
const CtxResourceID = "resource_id"

// AuditLog records successful member submissions. Staff actions are audited
// by the services that perform them.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method != http.MethodPost {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath())
		if action == "" {
			return
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		entry := &domain.AuditLog{
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.GetString(CtxResourceID),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
		}
		if mc, ok := MemberFrom(c); ok {
			entry.ActorID = mc.MemberID
			entry.ActorRole = mc.Role
		}
		auditSvc.Log(c.Request.Context(), entry)
	}
}

func mapRouteToAction(route string) (domain.AuditAction, string) {
	switch route {
	case "/api/v1/loans":
		return domain.AuditActionLoanApplication, "loan_application"
	case "/api/v1/payments":
		return domain.AuditActionPayment, "payment_request"
	case "/api/v1/savings/deposits":
		return domain.AuditActionDeposit, "savings_request"
	case "/api/v1/savings/withdrawals":
		return domain.AuditActionWithdrawal, "savings_request"
	}
	return "", ""
}
