package response

import (
	"errors"
	"net/http"
	"time"

	"loan-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// now is swapped in tests.
var now = time.Now

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

// PageResponse wraps a list result with paging metadata.
type PageResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// ErrorResponse is the standard error envelope. Retryable tells clients the
// same request may succeed later: a lock was busy, or a resolution stopped
// part way and can be resumed.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data interface{}) {
	success(c, http.StatusOK, data)
}

// Created sends a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	success(c, http.StatusCreated, data)
}

// Page sends a 200 response carrying one page of items.
func Page(c *gin.Context, items interface{}, total int64, page, pageSize int) {
	OK(c, PageResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}

func success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{
		Data:      data,
		RequestID: requestID(c),
		Timestamp: timestamp(),
	})
}

// Error sends an error response. An *apperror.AppError anywhere in the chain
// sets the code and status; anything else is reported as SYS_001.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.InternalError(err)
	}

	retryable := isRetryable(appErr.Code)
	if appErr.Code == apperror.CodeLockTimeout {
		c.Header("Retry-After", "1")
	}

	c.JSON(appErr.HTTPStatus, ErrorResponse{
		ErrorCode: appErr.Code,
		Message:   appErr.Message,
		Retryable: retryable,
		RequestID: requestID(c),
		Timestamp: timestamp(),
	})
}

func isRetryable(code string) bool {
	switch code {
	case apperror.CodeLockTimeout, apperror.CodeStorageFailure, apperror.CodeRateLimit:
		return true
	}
	return false
}

func timestamp() string {
	return now().UTC().Format(time.RFC3339)
}

// requestID retrieves request ID from context, or generates one.
func requestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
