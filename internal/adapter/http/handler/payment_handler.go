package handler

import (
	"loan-ledger/internal/adapter/http/dto"
	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
	"loan-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// PaymentHandler handles repayment submissions.
type PaymentHandler struct {
	payments ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Submit handles POST /api/v1/payments.
func (h *PaymentHandler) Submit(c *gin.Context) {
	mc, ok := member(c)
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.payments.Submit(c.Request.Context(), mc, ports.PaymentInput{
		LoanTxnID: req.LoanTxnID,
		Amount:    req.Amount,
		Method:    domain.DisbursementMethod(req.Method),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	created(c, mc.MemberID, res)
}
