package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loan-ledger/internal/adapter/http/middleware"
	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
	"loan-ledger/internal/core/ports/mocks"
	"loan-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	memberCtx = domain.MemberContext{MemberID: "M-1", Email: "m-1@coop.example", Role: domain.RoleMember}
	staffCtx  = domain.MemberContext{MemberID: "S-1", Email: "s-1@coop.example", Role: domain.RoleStaff}
)

// newContext builds a gin context for a request made by mc.
func newContext(method, target string, body interface{}, mc *domain.MemberContext) (*gin.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	if mc != nil {
		c.Set(middleware.CtxMember, *mc)
	}
	return c, w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "body: %s", w.Body.String())
	return data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	code, _ := resp["error_code"].(string)
	return code
}

// --- Loan Handler Tests ---

func TestLoanSubmit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loans := mocks.NewMockLoanService(ctrl)
	h := NewLoanHandler(loans, nil)

	submitted := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	loans.EXPECT().Submit(gomock.Any(), memberCtx, gomock.Any(), nil).DoAndReturn(
		func(_ context.Context, _ domain.MemberContext, in ports.LoanApplicationInput, _ *domain.LoanSettings) (*ports.SubmitResult, error) {
			assert.Equal(t, "Regular", in.LoanType)
			assert.Equal(t, 6, in.TermMonths)
			assert.True(t, in.Amount.Equal(decimal.NewFromInt(5000)))
			assert.Equal(t, domain.MethodBank, in.Method)
			assert.EqualValues(t, 2, in.SettingsVersion)
			return &ports.SubmitResult{TxnID: "000042", SubmittedAt: submitted}, nil
		})

	c, w := newContext(http.MethodPost, "/api/v1/loans", map[string]interface{}{
		"loan_type": " Regular ", "term_months": 6, "amount": "5000", "method": "bank", "settings_version": 2,
	}, &memberCtx)
	h.Submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "000042", decodeData(t, w)["txn_id"])
	assert.Equal(t, "M-1:000042", c.GetString(middleware.CtxResourceID))
}

func TestLoanSubmit_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewLoanHandler(mocks.NewMockLoanService(ctrl), nil)

	for name, body := range map[string]interface{}{
		"empty":          map[string]interface{}{},
		"zero amount":    map[string]interface{}{"loan_type": "Regular", "term_months": 6, "amount": "0", "method": "bank"},
		"unknown method": map[string]interface{}{"loan_type": "Regular", "term_months": 6, "amount": "10", "method": "cheque"},
	} {
		c, w := newContext(http.MethodPost, "/api/v1/loans", body, &memberCtx)
		h.Submit(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestLoanSubmit_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"collateral", apperror.ErrCollateralRequired(), http.StatusBadRequest, apperror.CodeCollateralRequired},
		{"duplicate", apperror.ErrDuplicatePending(), http.StatusConflict, apperror.CodeDuplicatePending},
		{"stale settings", apperror.ErrStaleSettings(1, 2), http.StatusConflict, apperror.CodeStaleSettings},
		{"not configured", apperror.ErrNotConfigured("Regular", 9), http.StatusUnprocessableEntity, apperror.CodeNotConfigured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			loans := mocks.NewMockLoanService(ctrl)
			h := NewLoanHandler(loans, nil)
			loans.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tt.err)

			c, w := newContext(http.MethodPost, "/api/v1/loans", map[string]interface{}{
				"loan_type": "Regular", "term_months": 6, "amount": "5000", "method": "bank",
			}, &memberCtx)
			h.Submit(c)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestLoanSubmit_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewLoanHandler(mocks.NewMockLoanService(ctrl), nil)
	c, w := newContext(http.MethodPost, "/api/v1/loans", nil, nil)
	h.Submit(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoanOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loans := mocks.NewMockLoanService(ctrl)
	h := NewLoanHandler(loans, nil)

	settings := &domain.LoanSettings{
		Version:       3,
		Rates:         domain.RateTable{"Regular": {6: decimal.NewFromInt(3), 12: decimal.NewFromInt(5)}},
		ProcessingFee: decimal.NewFromInt(100),
	}
	loans.EXPECT().Options(gomock.Any(), memberCtx, "Regular", 12, decimal.NewFromInt(9000)).Return(&ports.LoanOptions{
		Settings:           settings,
		LoanType:           "Regular",
		Term:               12,
		TermAvailable:      true,
		Balance:            decimal.NewFromInt(10000),
		LoanableAmount:     decimal.NewFromInt(8000),
		RequiresCollateral: false,
	}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/loans/options?loan_type=Regular&term=12&amount=9000", nil, &memberCtx)
	h.Options(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.EqualValues(t, 3, data["settings_version"])
	assert.Equal(t, []interface{}{float64(6), float64(12)}, data["terms"])
	assert.Equal(t, true, data["term_available"])

	c, w = newContext(http.MethodGet, "/api/v1/loans/options?term=abc", nil, &memberCtx)
	h.Options(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newContext(http.MethodGet, "/api/v1/loans/options?amount=lots", nil, &memberCtx)
	h.Options(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoanQuote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	payments := mocks.NewMockPaymentService(ctrl)
	h := NewLoanHandler(nil, payments)

	payments.EXPECT().Quote(gomock.Any(), memberCtx, "000042").Return(&domain.LoanQuote{
		MemberID: "M-1", LoanTxnID: "000042", Overdue: true, OverdueDays: 10,
		Penalty: decimal.NewFromInt(100), TotalDue: decimal.NewFromInt(1100),
	}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/loans/000042/quote", nil, &memberCtx)
	c.Params = gin.Params{{Key: "txn_id", Value: "000042"}}
	h.Quote(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "1100", data["total_due"])
	assert.EqualValues(t, 10, data["overdue_days"])

	c, w = newContext(http.MethodGet, "/api/v1/loans/42/quote", nil, &memberCtx)
	c.Params = gin.Params{{Key: "txn_id", Value: "42"}}
	h.Quote(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Payment & Savings Handler Tests ---

func TestPaymentSubmit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	payments := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(payments)

	payments.EXPECT().Submit(gomock.Any(), memberCtx, ports.PaymentInput{
		LoanTxnID: "000042",
		Amount:    decimal.RequireFromString("1100.50"),
		Method:    domain.MethodEWallet,
	}).Return(&ports.SubmitResult{TxnID: "000043"}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/payments", map[string]interface{}{
		"loan_txn_id": "000042", "amount": "1100.50", "method": "e-wallet",
	}, &memberCtx)
	h.Submit(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = newContext(http.MethodPost, "/api/v1/payments", map[string]interface{}{
		"loan_txn_id": "42", "amount": "10", "method": "cash",
	}, &memberCtx)
	h.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSavingsSubmit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	savings := mocks.NewMockSavingsService(ctrl)
	h := NewSavingsHandler(savings)

	savings.EXPECT().Submit(gomock.Any(), memberCtx, ports.SavingsInput{
		Kind: domain.SavingsDeposit, Amount: decimal.NewFromInt(500), Method: domain.MethodCash,
	}).Return(&ports.SubmitResult{TxnID: "000050"}, nil)
	c, w := newContext(http.MethodPost, "/api/v1/savings/deposits", map[string]interface{}{"amount": "500", "method": "cash"}, &memberCtx)
	h.Deposit(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	savings.EXPECT().Submit(gomock.Any(), memberCtx, gomock.Any()).Return(nil, apperror.ErrInsufficientBalance())
	c, w = newContext(http.MethodPost, "/api/v1/savings/withdrawals", map[string]interface{}{"amount": "99999", "method": "cash"}, &memberCtx)
	h.Withdraw(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeInsufficientBalance, errorCode(t, w))
}

// --- Console Handler Tests ---

func TestConsoleResolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	coord := mocks.NewMockLedgerCoordinator(ctrl)
	h := NewConsoleHandler(nil, coord, nil)

	coord.EXPECT().Resolve(gomock.Any(), ports.ResolveRequest{
		Staff: staffCtx, Kind: domain.KindDeposit, MemberID: "M-1", TxnID: "000050",
		Decision: domain.DecisionReject, Reason: "no receipt",
	}).Return(&domain.Resolution{
		Kind: domain.KindDeposit, MemberID: "M-1", TxnID: "000050", Decision: domain.DecisionReject,
		Status: domain.ResolutionCompleted, LastStep: domain.StepDeletePending,
	}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/console/resolve", map[string]interface{}{
		"kind": "deposit", "member_id": "M-1", "txn_id": "000050", "decision": "reject", "reason": "no receipt",
	}, &staffCtx)
	h.Resolve(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "completed", data["status"])
	assert.Equal(t, "deposit:M-1:000050", data["key"])
}

func TestConsoleResolve_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"lock timeout", apperror.ErrLockTimeout(nil), http.StatusServiceUnavailable},
		{"transition", apperror.ErrInvalidTransition("Approved", "Rejected"), http.StatusConflict},
		{"storage", apperror.ErrStorageFailure(3, "member balance", assert.AnError), http.StatusInternalServerError},
		{"not found", apperror.ErrNotFound("pending request"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			coord := mocks.NewMockLedgerCoordinator(ctrl)
			h := NewConsoleHandler(nil, coord, nil)
			coord.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			c, w := newContext(http.MethodPost, "/api/v1/console/resolve", map[string]interface{}{
				"kind": "loan", "member_id": "M-1", "txn_id": "000001", "decision": "approve",
			}, &staffCtx)
			h.Resolve(c)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	ctrl := gomock.NewController(t)
	h := NewConsoleHandler(nil, mocks.NewMockLedgerCoordinator(ctrl), nil)
	c, w := newContext(http.MethodPost, "/api/v1/console/resolve", map[string]interface{}{
		"kind": "transfer", "member_id": "M-1", "txn_id": "000001", "decision": "approve",
	}, &staffCtx)
	h.Resolve(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConsoleListPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reporting := mocks.NewMockReportingService(ctrl)
	h := NewConsoleHandler(reporting, nil, nil)

	reporting.EXPECT().ListPending(gomock.Any(), domain.KindLoan, ports.ListParams{Page: 2, PageSize: 20}).Return(
		[]domain.PendingRequest{{Kind: domain.KindLoan, MemberID: "M-1", TxnID: "000001"}}, int64(21), nil)

	c, w := newContext(http.MethodGet, "/api/v1/console/pending?kind=loan&page=2&page_size=500", nil, &staffCtx)
	h.ListPending(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.EqualValues(t, 21, data["total"])
	assert.Len(t, data["items"], 1)

	c, w = newContext(http.MethodGet, "/api/v1/console/pending", nil, &staffCtx)
	h.ListPending(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConsoleReconcile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recon := mocks.NewMockReconciliationService(ctrl)
	h := NewConsoleHandler(nil, nil, recon)

	recon.EXPECT().Run(gomock.Any(), 10).Return(&ports.ReconcileReport{
		Scanned: 2, Completed: 1,
		Failed: []ports.ReconcileFailure{{Key: "loan:M-1:000001", Step: "storage failure at step 5 (current loan)", Error: "boom"}},
	}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/console/reconcile?limit=10", nil, &staffCtx)
	h.Reconcile(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.EqualValues(t, 2, data["scanned"])
	assert.Len(t, data["failed"], 1)

	recon.EXPECT().ListIncomplete(gomock.Any(), 0).Return([]domain.Resolution{
		{Kind: domain.KindLoan, MemberID: "M-1", TxnID: "000001", Status: domain.ResolutionFailed,
			LastStep: domain.StepFundsPool, FailedStep: domain.StepCurrentLoan, LastError: "boom"},
	}, nil)
	c, w = newContext(http.MethodGet, "/api/v1/console/resolutions/incomplete", nil, &staffCtx)
	h.ListIncomplete(c)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "current loan", resp.Data[0]["failed_step"])
}

func TestConsoleFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reporting := mocks.NewMockReportingService(ctrl)
	h := NewConsoleHandler(reporting, nil, nil)
	reporting.EXPECT().FundsPool(gomock.Any()).Return(decimal.RequireFromString("45100.00"), nil)

	c, w := newContext(http.MethodGet, "/api/v1/console/funds", nil, &staffCtx)
	h.Funds(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "45100", decodeData(t, w)["amount"])
}

// --- Settings & History ---

func TestSettingsUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	settings := mocks.NewMockSettingsService(ctrl)
	h := NewSettingsHandler(settings)

	settings.EXPECT().Update(gomock.Any(), staffCtx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.MemberContext, s domain.LoanSettings) (*domain.LoanSettings, error) {
			rate, ok := s.Rate("Regular", 12)
			assert.True(t, ok)
			assert.True(t, rate.Equal(decimal.NewFromInt(5)))
			s.Version = 7
			return &s, nil
		})

	c, w := newContext(http.MethodPut, "/api/v1/console/settings", map[string]interface{}{
		"rates":               map[string]map[string]string{"Regular": {"6": "3", "12": "5"}},
		"processing_fee":      "100",
		"loanable_percentage": "80",
	}, &staffCtx)
	h.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 7, decodeData(t, w)["version"])
}

func TestHistoryMine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reporting := mocks.NewMockReportingService(ctrl)
	h := NewHistoryHandler(reporting)

	loanType := domain.TransactionTypeLoan
	reporting.EXPECT().ListTransactions(gomock.Any(), ports.TransactionLogListParams{
		MemberID: "M-1", Type: &loanType, ListParams: ports.ListParams{Page: 1, PageSize: 20},
	}).Return(nil, int64(0), nil)

	c, w := newContext(http.MethodGet, "/api/v1/transactions?type=Loan", nil, &memberCtx)
	h.Mine(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, []interface{}{}, data["items"])
}

// --- Health ---

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	pg := mocks.NewMockHealthChecker(ctrl)
	rd := mocks.NewMockHealthChecker(ctrl)
	pg.EXPECT().Name().Return("postgresql").AnyTimes()
	rd.EXPECT().Name().Return("redis").AnyTimes()

	pg.EXPECT().Ping(gomock.Any()).Return(nil).Times(2)
	rd.EXPECT().Ping(gomock.Any()).Return(nil)
	rd.EXPECT().Ping(gomock.Any()).Return(assert.AnError)

	c, w := newContext(http.MethodGet, "/health", nil, nil)
	HealthCheck(pg, rd)(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newContext(http.MethodGet, "/health", nil, nil)
	HealthCheck(pg, rd)(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}
