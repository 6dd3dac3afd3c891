package handler

import (
	"loan-ledger/internal/adapter/http/dto"
	"loan-ledger/internal/core/ports"
	"loan-ledger/pkg/apperror"
	"loan-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// SettingsHandler reads and replaces the loan settings snapshot.
type SettingsHandler struct {
	settings ports.SettingsService
}

func NewSettingsHandler(settings ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Current handles GET /api/v1/settings.
func (h *SettingsHandler) Current(c *gin.Context) {
	s, err := h.settings.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, s)
}

// Update handles PUT /api/v1/console/settings.
func (h *SettingsHandler) Update(c *gin.Context) {
	mc, ok := member(c)
	if !ok {
		return
	}

	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	saved, err := h.settings.Update(c.Request.Context(), mc, req.ToSettings())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, saved)
}
