package handler

import (
	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
	"loan-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves transaction history.
type HistoryHandler struct {
	reporting ports.ReportingService
}

func NewHistoryHandler(reporting ports.ReportingService) *HistoryHandler {
	return &HistoryHandler{reporting: reporting}
}

// Mine handles GET /api/v1/transactions.
func (h *HistoryHandler) Mine(c *gin.Context) {
	mc, ok := member(c)
	if !ok {
		return
	}
	h.list(c, mc.MemberID)
}

// ForMember handles GET /api/v1/console/members/:member_id/transactions.
func (h *HistoryHandler) ForMember(c *gin.Context) {
	h.list(c, c.Param("member_id"))
}

func (h *HistoryHandler) list(c *gin.Context, memberID string) {
	page := pageParams(c)
	params := ports.TransactionLogListParams{MemberID: memberID, ListParams: page}
	if t := c.Query("type"); t != "" {
		txType := domain.TransactionType(t)
		params.Type = &txType
	}

	entries, total, err := h.reporting.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	if entries == nil {
		entries = []domain.TransactionLogEntry{}
	}
	response.Page(c, entries, total, page.Page, page.PageSize)
}
