package handler

import (
	"loan-ledger/internal/adapter/http/dto"
	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
	"loan-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// SavingsHandler handles deposit and withdrawal submissions.
type SavingsHandler struct {
	savings ports.SavingsService
}

func NewSavingsHandler(savings ports.SavingsService) *SavingsHandler {
	return &SavingsHandler{savings: savings}
}

// Deposit handles POST /api/v1/savings/deposits.
func (h *SavingsHandler) Deposit(c *gin.Context) {
	h.submit(c, domain.SavingsDeposit)
}

// Withdraw handles POST /api/v1/savings/withdrawals.
func (h *SavingsHandler) Withdraw(c *gin.Context) {
	h.submit(c, domain.SavingsWithdrawal)
}

func (h *SavingsHandler) submit(c *gin.Context, kind domain.SavingsKind) {
	mc, ok := member(c)
	if !ok {
		return
	}

	var req dto.SavingsRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.savings.Submit(c.Request.Context(), mc, ports.SavingsInput{
		Kind:   kind,
		Amount: req.Amount,
		Method: domain.DisbursementMethod(req.Method),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	created(c, mc.MemberID, res)
}
