package handler

import (
	"loan-ledger/internal/adapter/http/dto"
	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
	"loan-ledger/pkg/apperror"
	"loan-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// ConsoleHandler serves the staff console: the pending queues, resolutions
// and the funds report.
type ConsoleHandler struct {
	reporting   ports.ReportingService
	coordinator ports.LedgerCoordinator
	recon       ports.ReconciliationService
}

// NewConsoleHandler creates a new ConsoleHandler.
func NewConsoleHandler(reporting ports.ReportingService, coordinator ports.LedgerCoordinator, recon ports.ReconciliationService) *ConsoleHandler {
	return &ConsoleHandler{reporting: reporting, coordinator: coordinator, recon: recon}
}

// ListPending handles GET /api/v1/console/pending?kind=.
func (h *ConsoleHandler) ListPending(c *gin.Context) {
	kind := domain.RequestKind(c.Query("kind"))
	if kind == "" {
		response.Error(c, apperror.Validation("kind is required"))
		return
	}

	page := pageParams(c)
	rows, total, err := h.reporting.ListPending(c.Request.Context(), kind, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, rows, total, page.Page, page.PageSize)
}

// Resolve handles POST /api/v1/console/resolve.
func (h *ConsoleHandler) Resolve(c *gin.Context) {
	mc, ok := member(c)
	if !ok {
		return
	}

	var req dto.ResolveRequest
	if !bind(c, &req) {
		return
	}

	r, err := h.coordinator.Resolve(c.Request.Context(), ports.ResolveRequest{
		Staff:    mc,
		Kind:     domain.RequestKind(req.Kind),
		MemberID: req.MemberID,
		TxnID:    req.TxnID,
		Decision: domain.Decision(req.Decision),
		Reason:   req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewResolutionResponse(r))
}

// Reconcile handles POST /api/v1/console/reconcile.
func (h *ConsoleHandler) Reconcile(c *gin.Context) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}

	report, err := h.recon.Run(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// ListIncomplete handles GET /api/v1/console/resolutions/incomplete.
func (h *ConsoleHandler) ListIncomplete(c *gin.Context) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}

	markers, err := h.recon.ListIncomplete(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]dto.ResolutionResponse, 0, len(markers))
	for i := range markers {
		items = append(items, dto.NewResolutionResponse(&markers[i]))
	}
	response.OK(c, items)
}

// Funds handles GET /api/v1/console/funds.
func (h *ConsoleHandler) Funds(c *gin.Context) {
	amount, err := h.reporting.FundsPool(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FundsResponse{Amount: amount})
}
