package handler

import (
	"strconv"

	"loan-ledger/internal/adapter/http/dto"
	"loan-ledger/internal/adapter/http/middleware"
	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
	"loan-ledger/pkg/apperror"
	"loan-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type validatable interface {
	Validate() error
}

// member returns the authenticated caller or writes 401.
func member(c *gin.Context) (domain.MemberContext, bool) {
	mc, ok := middleware.MemberFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return domain.MemberContext{}, false
	}
	return mc, true
}

// bind decodes the JSON body into req, sanitizes it and runs its Validate
// method. It writes a 400 and returns false on any failure.
func bind(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return false
	}
	dto.SanitizeStruct(req)
	if err := req.Validate(); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return false
	}
	return true
}

// pageParams reads page and page_size, clamping bad values to defaults.
func pageParams(c *gin.Context) ports.ListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return ports.ListParams{Page: page, PageSize: pageSize}
}

func intQuery(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		response.Error(c, apperror.Validation(key+" must be an integer"))
		return 0, false
	}
	return v, true
}

// created records the new request for the audit middleware and writes 201.
func created(c *gin.Context, memberID string, res *ports.SubmitResult) {
	c.Set(middleware.CtxResourceID, memberID+":"+res.TxnID)
	response.Created(c, res)
}
