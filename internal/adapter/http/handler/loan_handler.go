package handler

import (
	"loan-ledger/internal/adapter/http/dto"
	"loan-ledger/internal/core/ports"
	"loan-ledger/pkg/apperror"
	"loan-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// LoanHandler handles loan application and current-loan endpoints.
type LoanHandler struct {
	loans    ports.LoanService
	payments ports.PaymentService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loans ports.LoanService, payments ports.PaymentService) *LoanHandler {
	return &LoanHandler{loans: loans, payments: payments}
}

// Options handles GET /api/v1/loans/options.
func (h *LoanHandler) Options(c *gin.Context) {
	mc, ok := member(c)
	if !ok {
		return
	}

	term, ok := intQuery(c, "term")
	if !ok {
		return
	}
	amount := decimal.Zero
	if raw := c.Query("amount"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			response.Error(c, apperror.Validation("amount must be a decimal number"))
			return
		}
		amount = v
	}

	opts, err := h.loans.Options(c.Request.Context(), mc, c.Query("loan_type"), term, amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewLoanOptionsResponse(opts))
}

// Submit handles POST /api/v1/loans.
func (h *LoanHandler) Submit(c *gin.Context) {
	mc, ok := member(c)
	if !ok {
		return
	}

	var req dto.LoanApplicationRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.loans.Submit(c.Request.Context(), mc, req.ToInput(), nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	created(c, mc.MemberID, res)
}

// ListCurrent handles GET /api/v1/loans/current.
func (h *LoanHandler) ListCurrent(c *gin.Context) {
	mc, ok := member(c)
	if !ok {
		return
	}

	views, err := h.loans.ListCurrent(c.Request.Context(), mc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, views)
}

// Quote handles GET /api/v1/loans/:txn_id/quote.
func (h *LoanHandler) Quote(c *gin.Context) {
	mc, ok := member(c)
	if !ok {
		return
	}

	txnID := c.Param("txn_id")
	if !dto.ValidTxnID(txnID) {
		response.Error(c, apperror.Validation("txn_id must be 6 digits"))
		return
	}

	quote, err := h.payments.Quote(c.Request.Context(), mc, txnID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, quote)
}
