package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"loan-ledger/internal/adapter/storage/memory"
	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
	"loan-ledger/internal/core/ports/mocks"
	"loan-ledger/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func resolveReq(kind domain.RequestKind, memberID, txnID string, decision domain.Decision) ports.ResolveRequest {
	return ports.ResolveRequest{Staff: staff, Kind: kind, MemberID: memberID, TxnID: txnID, Decision: decision}
}

func submitLoan(t *testing.T, e *ledgerEnv, mc domain.MemberContext, amount string) string {
	t.Helper()
	res, err := e.loans.Submit(context.Background(), mc, loanInput(e.settingsVersion(t), amount), nil)
	require.NoError(t, err)
	return res.TxnID
}

func submitSavings(t *testing.T, e *ledgerEnv, mc domain.MemberContext, kind domain.SavingsKind, amount string) string {
	t.Helper()
	res, err := e.savings.Submit(context.Background(), mc, ports.SavingsInput{Kind: kind, Amount: d(amount), Method: domain.MethodCash})
	require.NoError(t, err)
	return res.TxnID
}

func TestCoordinator_ApproveLoan_ScenarioA(t *testing.T) {
	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "10000")
	e.store.Funds().Seed(d("50000"))
	ctx := context.Background()
	txnID := submitLoan(t, e, mc, "5000")

	r, err := e.coord.Resolve(ctx, resolveReq(domain.KindLoan, "M-1", txnID, domain.DecisionApprove))
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionCompleted, r.Status)
	assert.Equal(t, domain.StepDeletePending, r.LastStep)
	require.NotNil(t, r.CompletedAt)

	loan, err := e.store.CurrentLoans().Get(ctx, "M-1", txnID)
	require.NoError(t, err)
	require.NotNil(t, loan)
	assertMoney(t, "5000", loan.OutstandingBalance)
	assertMoney(t, "150", loan.InterestAmount)
	assertMoney(t, "858.33", loan.MonthlyPayment)
	assertMoney(t, "4900", loan.ReleaseAmount)
	assert.Equal(t, e.now.UTC().AddDate(0, 6, 0), loan.DueDate)

	assertMoney(t, "10000", e.balance(t, "M-1"))
	assertMoney(t, "45100", e.pool(t))

	pending, err := e.store.LoanApplications().GetPending(ctx, "M-1", txnID)
	require.NoError(t, err)
	assert.Nil(t, pending)
	resolved, err := e.store.LoanApplications().GetResolved(ctx, "M-1", txnID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, domain.LoanStatusApproved, resolved.Status)
	assert.Equal(t, "S-1", resolved.ResolvedBy)

	entries, _, err := e.store.TransactionLogs().List(ctx, ports.TransactionLogListParams{MemberID: "M-1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.EntryStatusApproved, entries[0].Status)
}

func TestCoordinator_RejectLoan_HasNoMoneyEffects(t *testing.T) {
	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "10000")
	e.store.Funds().Seed(d("50000"))
	ctx := context.Background()
	txnID := submitLoan(t, e, mc, "5000")

	req := resolveReq(domain.KindLoan, "M-1", txnID, domain.DecisionReject)
	req.Reason = "incomplete documents"
	r, err := e.coord.Resolve(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []domain.Step{domain.StepResolvedRecord, domain.StepTransactionLog, domain.StepDeletePending}, r.Effect.Steps())

	assertMoney(t, "10000", e.balance(t, "M-1"))
	assertMoney(t, "50000", e.pool(t))
	loan, err := e.store.CurrentLoans().Get(ctx, "M-1", txnID)
	require.NoError(t, err)
	assert.Nil(t, loan)

	resolved, err := e.store.LoanApplications().GetResolved(ctx, "M-1", txnID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusRejected, resolved.Status)
	assert.Equal(t, "incomplete documents", resolved.RejectionReason)

	// Rejected stays rejected.
	_, err = e.coord.Resolve(ctx, resolveReq(domain.KindLoan, "M-1", txnID, domain.DecisionApprove))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidTransition))

	e.coord.cache = nil
	_, err = e.coord.Resolve(ctx, resolveReq(domain.KindLoan, "M-1", txnID, domain.DecisionApprove))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidTransition))
	resolved, err = e.store.LoanApplications().GetResolved(ctx, "M-1", txnID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusRejected, resolved.Status)
}

func TestCoordinator_Resolve_IsIdempotent(t *testing.T) {
	for _, withCache := range []bool{true, false} {
		name := "marker"
		if withCache {
			name = "cache"
		}
		t.Run(name, func(t *testing.T) {
			e := newLedgerEnv(t)
			if !withCache {
				e.coord.cache = nil
			}
			mc := e.member(t, "M-1", "1000")
			e.store.Funds().Seed(d("0"))
			ctx := context.Background()
			txnID := submitSavings(t, e, mc, domain.SavingsDeposit, "250")

			first, err := e.coord.Resolve(ctx, resolveReq(domain.KindDeposit, "M-1", txnID, domain.DecisionApprove))
			require.NoError(t, err)
			second, err := e.coord.Resolve(ctx, resolveReq(domain.KindDeposit, "M-1", txnID, domain.DecisionApprove))
			require.NoError(t, err)

			assert.Equal(t, first.CompletedAt.Unix(), second.CompletedAt.Unix())
			assertMoney(t, "1250", e.balance(t, "M-1"))
			assertMoney(t, "250", e.pool(t))
		})
	}
}

func TestCoordinator_ApprovePayment_Allocation(t *testing.T) {
	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "0")
	e.store.Funds().Seed(d("10000"))
	e.seedLoan(t, scenarioCLoan(e))
	ctx := context.Background()

	res, err := e.payments.Submit(ctx, mc, ports.PaymentInput{LoanTxnID: "000500", Amount: d("1100"), Method: domain.MethodCash})
	require.NoError(t, err)

	r, err := e.coord.Resolve(ctx, resolveReq(domain.KindPayment, "M-1", res.TxnID, domain.DecisionApprove))
	require.NoError(t, err)

	alloc := r.Effect.Payment.Allocation
	require.NotNil(t, alloc)
	assertMoney(t, "100", alloc.Penalty)
	assertMoney(t, "100", alloc.Interest)
	assertMoney(t, "900", alloc.Principal)
	assertMoney(t, "0", alloc.Excess)
	assertMoney(t, "2100", alloc.NewOutstanding)
	assert.Equal(t, 10, alloc.OverdueDays)
	assert.Equal(t, domain.LoanActionUpdate, r.Effect.LoanAction)

	loan, err := e.store.CurrentLoans().Get(ctx, "M-1", "000500")
	require.NoError(t, err)
	require.NotNil(t, loan)
	assertMoney(t, "2100", loan.OutstandingBalance)
	assertMoney(t, "100", loan.InterestPaid)

	assertMoney(t, "0", e.balance(t, "M-1"))
	assertMoney(t, "11100", e.pool(t))
}

func TestCoordinator_ApprovePayment_ClosesLoanAndCreditsExcess(t *testing.T) {
	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "0")
	loan := scenarioCLoan(e)
	loan.DueDate = e.now.AddDate(0, 1, 0)
	e.seedLoan(t, loan)
	ctx := context.Background()

	res, err := e.payments.Submit(ctx, mc, ports.PaymentInput{LoanTxnID: "000500", Amount: d("3500"), Method: domain.MethodCash})
	require.NoError(t, err)

	r, err := e.coord.Resolve(ctx, resolveReq(domain.KindPayment, "M-1", res.TxnID, domain.DecisionApprove))
	require.NoError(t, err)
	assert.Equal(t, domain.LoanActionRemove, r.Effect.LoanAction)
	// The closing payment also collects the 200 interest not yet due.
	assertMoney(t, "300", r.Effect.Payment.Allocation.Interest)
	assertMoney(t, "3000", r.Effect.Payment.Allocation.Principal)
	assertMoney(t, "200", r.Effect.Payment.Allocation.Excess)

	current, err := e.store.CurrentLoans().Get(ctx, "M-1", "000500")
	require.NoError(t, err)
	assert.Nil(t, current)
	assertMoney(t, "200", e.balance(t, "M-1"))
	assertMoney(t, "3500", e.pool(t))
}

func TestCoordinator_ApproveUntiedPayment_AllExcess(t *testing.T) {
	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "100")
	ctx := context.Background()

	res, err := e.payments.Submit(ctx, mc, ports.PaymentInput{Amount: d("300"), Method: domain.MethodCash})
	require.NoError(t, err)

	r, err := e.coord.Resolve(ctx, resolveReq(domain.KindPayment, "M-1", res.TxnID, domain.DecisionApprove))
	require.NoError(t, err)
	assert.NotContains(t, r.Effect.Steps(), domain.StepCurrentLoan)
	assertMoney(t, "400", e.balance(t, "M-1"))
	assertMoney(t, "300", e.pool(t))
}

func TestCoordinator_Withdrawal(t *testing.T) {
	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "1000")
	e.store.Funds().Seed(d("5000"))
	ctx := context.Background()

	first := submitSavings(t, e, mc, domain.SavingsWithdrawal, "700")
	second := submitSavings(t, e, mc, domain.SavingsWithdrawal, "700")

	_, err := e.coord.Resolve(ctx, resolveReq(domain.KindWithdrawal, "M-1", first, domain.DecisionApprove))
	require.NoError(t, err)
	assertMoney(t, "300", e.balance(t, "M-1"))
	assertMoney(t, "4300", e.pool(t))

	_, err = e.coord.Resolve(ctx, resolveReq(domain.KindWithdrawal, "M-1", second, domain.DecisionApprove))
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientBalance))
	assertMoney(t, "300", e.balance(t, "M-1"))

	// Nothing was written, so it can still be rejected.
	_, err = e.coord.Resolve(ctx, resolveReq(domain.KindWithdrawal, "M-1", second, domain.DecisionReject))
	assert.NoError(t, err)
}

func TestCoordinator_Resolve_Errors(t *testing.T) {
	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "1000")
	ctx := context.Background()
	txnID := submitSavings(t, e, mc, domain.SavingsDeposit, "10")

	tests := []struct {
		name string
		req  ports.ResolveRequest
		code string
	}{
		{"not staff", ports.ResolveRequest{Staff: mc, Kind: domain.KindDeposit, MemberID: "M-1", TxnID: txnID, Decision: domain.DecisionApprove}, apperror.CodeForbidden},
		{"bad kind", resolveReq("transfer", "M-1", txnID, domain.DecisionApprove), apperror.CodeValidation},
		{"bad decision", resolveReq(domain.KindDeposit, "M-1", txnID, "maybe"), apperror.CodeValidation},
		{"missing id", resolveReq(domain.KindDeposit, "M-1", "", domain.DecisionApprove), apperror.CodeValidation},
		{"unknown request", resolveReq(domain.KindDeposit, "M-1", "999999", domain.DecisionApprove), apperror.CodeNotFound},
		{"wrong kind", resolveReq(domain.KindWithdrawal, "M-1", txnID, domain.DecisionApprove), apperror.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.coord.Resolve(ctx, tt.req)
			assert.Truef(t, apperror.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestCoordinator_Resolve_MemberNotFoundBeforeAnyWrite(t *testing.T) {
	e := newLedgerEnv(t)
	ctx := context.Background()
	created, err := e.store.Savings().CreatePending(ctx, &domain.SavingsRequest{
		MemberID: "ghost", TxnID: "000042", Kind: domain.SavingsDeposit, Amount: d("10"), Status: domain.SavingsStatusPending,
	})
	require.NoError(t, err)
	require.True(t, created)

	_, err = e.coord.Resolve(ctx, resolveReq(domain.KindDeposit, "ghost", "000042", domain.DecisionApprove))
	assert.True(t, apperror.HasCode(err, apperror.CodeMemberNotFound))

	marker, err := e.store.Resolutions().Get(ctx, domain.KindDeposit, "ghost", "000042")
	require.NoError(t, err)
	assert.Nil(t, marker)
	pending, err := e.store.Savings().GetPending(ctx, domain.SavingsDeposit, "ghost", "000042")
	require.NoError(t, err)
	assert.NotNil(t, pending)
}

func TestCoordinator_PartialFailure_ResumesFromFailedStep(t *testing.T) {
	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "1000")
	e.store.Funds().Seed(d("0"))
	ctx := context.Background()
	txnID := submitSavings(t, e, mc, domain.SavingsDeposit, "500")

	e.store.FailNext(memory.OpFundsAdjust, errors.New("disk full"))
	_, err := e.coord.Resolve(ctx, resolveReq(domain.KindDeposit, "M-1", txnID, domain.DecisionApprove))
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeStorageFailure))
	assert.Contains(t, err.Error(), "step 4 (funds pool)")

	// Steps 1-3 stay applied.
	assertMoney(t, "1500", e.balance(t, "M-1"))
	assertMoney(t, "0", e.pool(t))
	marker, err := e.store.Resolutions().Get(ctx, domain.KindDeposit, "M-1", txnID)
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionFailed, marker.Status)
	assert.Equal(t, domain.StepMemberBalance, marker.LastStep)
	assert.Equal(t, domain.StepFundsPool, marker.FailedStep)
	pending, err := e.store.Savings().GetPending(ctx, domain.SavingsDeposit, "M-1", txnID)
	require.NoError(t, err)
	assert.NotNil(t, pending)

	// Retrying the same decision resumes; the balance is not credited twice.
	r, err := e.coord.Resolve(ctx, resolveReq(domain.KindDeposit, "M-1", txnID, domain.DecisionApprove))
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionCompleted, r.Status)
	assert.Empty(t, r.LastError)
	assertMoney(t, "1500", e.balance(t, "M-1"))
	assertMoney(t, "500", e.pool(t))
	pending, err = e.store.Savings().GetPending(ctx, domain.SavingsDeposit, "M-1", txnID)
	require.NoError(t, err)
	assert.Nil(t, pending)
}

func TestCoordinator_UnrecordedStepIsReplayedSafely(t *testing.T) {
	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "1000")
	ctx := context.Background()
	txnID := submitSavings(t, e, mc, domain.SavingsDeposit, "500")

	// The balance write lands but recording it in the marker fails once
	// after steps 1 and 2 have been saved.
	markers := &flakyMarkers{ResolutionRepository: e.store.Resolutions(), failOn: 3}
	stores := ledgerStores(e.store)
	stores.Resolutions = markers
	e.coord.stores = stores

	_, err := e.coord.Resolve(ctx, resolveReq(domain.KindDeposit, "M-1", txnID, domain.DecisionApprove))
	require.Error(t, err)
	assertMoney(t, "1500", e.balance(t, "M-1"))

	r, err := e.coord.Resolve(ctx, resolveReq(domain.KindDeposit, "M-1", txnID, domain.DecisionApprove))
	require.NoError(t, err)
	assert.True(t, r.IsComplete())
	assertMoney(t, "1500", e.balance(t, "M-1"))
}

func onTimeLoan(e *ledgerEnv) domain.CurrentLoan {
	loan := scenarioCLoan(e)
	loan.DueDate = e.now.AddDate(0, 1, 0)
	return loan
}

func submitLoanPayment(t *testing.T, e *ledgerEnv, mc domain.MemberContext, amount string) string {
	t.Helper()
	res, err := e.payments.Submit(context.Background(), mc, ports.PaymentInput{LoanTxnID: "000500", Amount: d(amount), Method: domain.MethodCash})
	require.NoError(t, err)
	return res.TxnID
}

func TestCoordinator_PaymentWaitsForUnfinishedPaymentOnSameLoan(t *testing.T) {
	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "0")
	e.store.Funds().Seed(d("0"))
	e.seedLoan(t, onTimeLoan(e))
	ctx := context.Background()

	first := submitLoanPayment(t, e, mc, "1000")
	second := submitLoanPayment(t, e, mc, "1000")
	third := submitLoanPayment(t, e, mc, "5")

	e.store.FailNext(memory.OpFundsAdjust, errors.New("disk full"))
	_, err := e.coord.Resolve(ctx, resolveReq(domain.KindPayment, "M-1", first, domain.DecisionApprove))
	require.True(t, apperror.HasCode(err, apperror.CodeStorageFailure))

	_, err = e.coord.Resolve(ctx, resolveReq(domain.KindPayment, "M-1", second, domain.DecisionApprove))
	assert.True(t, apperror.HasCode(err, apperror.CodeLoanInFlight), "got %v", err)
	marker, err := e.store.Resolutions().Get(ctx, domain.KindPayment, "M-1", second)
	require.NoError(t, err)
	assert.Nil(t, marker)

	// Rejecting does not touch the loan and is not held back.
	_, err = e.coord.Resolve(ctx, resolveReq(domain.KindPayment, "M-1", third, domain.DecisionReject))
	require.NoError(t, err)

	report, err := e.recon.Run(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, 1, report.Completed)

	_, err = e.coord.Resolve(ctx, resolveReq(domain.KindPayment, "M-1", second, domain.DecisionApprove))
	require.NoError(t, err)

	loan, err := e.store.CurrentLoans().Get(ctx, "M-1", "000500")
	require.NoError(t, err)
	require.NotNil(t, loan)
	assertMoney(t, "1200", loan.OutstandingBalance)
	assertMoney(t, "200", loan.InterestPaid)
	assertMoney(t, "2000", e.pool(t))
}

func TestCoordinator_ClosedLoanIsNotRecreatedByEarlierPayment(t *testing.T) {
	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "0")
	e.store.Funds().Seed(d("0"))
	e.seedLoan(t, onTimeLoan(e))
	ctx := context.Background()

	first := submitLoanPayment(t, e, mc, "1000")
	closing := submitLoanPayment(t, e, mc, "2400")

	e.store.FailNext(memory.OpFundsAdjust, errors.New("disk full"))
	_, err := e.coord.Resolve(ctx, resolveReq(domain.KindPayment, "M-1", first, domain.DecisionApprove))
	require.Error(t, err)

	_, err = e.coord.Resolve(ctx, resolveReq(domain.KindPayment, "M-1", closing, domain.DecisionApprove))
	require.True(t, apperror.HasCode(err, apperror.CodeLoanInFlight))

	_, err = e.recon.Run(ctx, 0)
	require.NoError(t, err)
	r, err := e.coord.Resolve(ctx, resolveReq(domain.KindPayment, "M-1", closing, domain.DecisionApprove))
	require.NoError(t, err)
	assert.Equal(t, domain.LoanActionRemove, r.Effect.LoanAction)
	assertMoney(t, "100", r.Effect.Payment.Allocation.Excess)

	// Replaying either payment afterwards leaves the loan closed.
	_, err = e.coord.Resolve(ctx, resolveReq(domain.KindPayment, "M-1", first, domain.DecisionApprove))
	require.NoError(t, err)
	report, err := e.recon.Run(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, report.Scanned)

	loan, err := e.store.CurrentLoans().Get(ctx, "M-1", "000500")
	require.NoError(t, err)
	assert.Nil(t, loan)
	assertMoney(t, "100", e.balance(t, "M-1"))
	assertMoney(t, "3400", e.pool(t))
}

func TestCoordinator_LoanUpdateResumesAsRelativeChange(t *testing.T) {
	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "0")
	e.seedLoan(t, onTimeLoan(e))
	ctx := context.Background()
	txnID := submitLoanPayment(t, e, mc, "1000")

	e.store.FailNext(memory.OpCurrentRepay, errors.New("connection reset"))
	_, err := e.coord.Resolve(ctx, resolveReq(domain.KindPayment, "M-1", txnID, domain.DecisionApprove))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 5")

	// A change made to the loan in the meantime survives the resume.
	loan, err := e.store.CurrentLoans().Get(ctx, "M-1", "000500")
	require.NoError(t, err)
	loan.OutstandingBalance = d("2500")
	require.NoError(t, e.store.CurrentLoans().Save(ctx, loan))

	_, err = e.coord.Resolve(ctx, resolveReq(domain.KindPayment, "M-1", txnID, domain.DecisionApprove))
	require.NoError(t, err)
	loan, err = e.store.CurrentLoans().Get(ctx, "M-1", "000500")
	require.NoError(t, err)
	assertMoney(t, "1600", loan.OutstandingBalance)
	assertMoney(t, "100", loan.InterestPaid)
}

type flakyMarkers struct {
	ports.ResolutionRepository
	failOn int
	saves  int
}

func (f *flakyMarkers) Save(ctx context.Context, r *domain.Resolution) error {
	f.saves++
	if f.saves == f.failOn {
		return errors.New("marker write timeout")
	}
	return f.ResolutionRepository.Save(ctx, r)
}

func TestCoordinator_ConcurrentResolutions_ScenarioD(t *testing.T) {
	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "1000")
	e.store.Funds().Seed(d("0"))
	ctx := context.Background()

	const n = 8
	ids := make([]string, n)
	for i := range ids {
		ids[i] = submitSavings(t, e, mc, domain.SavingsDeposit, "100")
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := e.coord.Resolve(ctx, resolveReq(domain.KindDeposit, "M-1", id, domain.DecisionApprove))
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assertMoney(t, "1800", e.balance(t, "M-1"))
	assertMoney(t, "800", e.pool(t))
}

func TestCoordinator_LockTimeout(t *testing.T) {
	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "1000")
	ctx := context.Background()
	txnID := submitSavings(t, e, mc, domain.SavingsDeposit, "100")

	locker := memory.NewLocker(20 * time.Millisecond)
	e.coord.locker = locker
	held, err := locker.Acquire(ctx, "member:M-1")
	require.NoError(t, err)
	defer held.Release(ctx)

	_, err = e.coord.Resolve(ctx, resolveReq(domain.KindDeposit, "M-1", txnID, domain.DecisionApprove))
	assert.True(t, apperror.HasCode(err, apperror.CodeLockTimeout))
	assertMoney(t, "1000", e.balance(t, "M-1"))
}

func TestCoordinator_LocksMemberThenLoan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "0")
	e.seedLoan(t, scenarioCLoan(e))
	res, err := e.payments.Submit(context.Background(), mc, ports.PaymentInput{LoanTxnID: "000500", Amount: d("50"), Method: domain.MethodCash})
	require.NoError(t, err)

	locker := mocks.NewMockLocker(ctrl)
	lease := mocks.NewMockLease(ctrl)
	gomock.InOrder(
		locker.EXPECT().Acquire(gomock.Any(), "member:M-1").Return(lease, nil),
		locker.EXPECT().Acquire(gomock.Any(), "loan:M-1:000500").Return(lease, nil),
	)
	lease.EXPECT().Release(gomock.Any()).Return(nil).Times(2)
	e.coord.locker = locker

	_, err = e.coord.Resolve(context.Background(), resolveReq(domain.KindPayment, "M-1", res.TxnID, domain.DecisionApprove))
	require.NoError(t, err)
}

func TestCoordinator_NotifiesAndCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	e := newLedgerEnv(t)
	mc := e.member(t, "M-1", "0")
	txnID := submitSavings(t, e, mc, domain.SavingsDeposit, "75")

	notifier := mocks.NewMockNotifier(ctrl)
	cache := mocks.NewMockResolutionCache(ctrl)
	e.coord.notifier = notifier
	e.coord.cache = cache

	key := domain.ResolutionKey(domain.KindDeposit, "M-1", txnID)
	cache.EXPECT().Get(gomock.Any(), key).Return(nil, nil)
	cache.EXPECT().Set(gomock.Any(), key, gomock.Any(), time.Hour).Return(errors.New("redis down"))
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n domain.Notification) error {
		assert.Equal(t, txnID, n.TxnID)
		assert.Equal(t, domain.DecisionApprove, n.Decision)
		assertMoney(t, "75", n.Amount)
		return errors.New("queue unavailable")
	})

	// Cache and notifier failures do not fail the resolution.
	r, err := e.coord.Resolve(context.Background(), resolveReq(domain.KindDeposit, "M-1", txnID, domain.DecisionApprove))
	require.NoError(t, err)
	assert.True(t, r.IsComplete())
	assertMoney(t, "75", e.balance(t, "M-1"))
}

func TestCoordinator_CachedResolutionSkipsLocking(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := mocks.NewMockResolutionCache(ctrl)
	locker := mocks.NewMockLocker(ctrl)
	coord := NewLedgerCoordinator(LedgerStores{}, locker, cache, nil, NewAuditService(nil, newTestLogger()), time.Hour, manila, newTestLogger())

	done := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	raw, err := json.Marshal(domain.Resolution{
		Kind: domain.KindLoan, MemberID: "M-1", TxnID: "000001",
		Decision: domain.DecisionApprove, Status: domain.ResolutionCompleted, CompletedAt: &done,
	})
	require.NoError(t, err)
	cache.EXPECT().Get(gomock.Any(), "loan:M-1:000001").Return(raw, nil).Times(2)

	r, err := coord.Resolve(context.Background(), resolveReq(domain.KindLoan, "M-1", "000001", domain.DecisionApprove))
	require.NoError(t, err)
	assert.True(t, r.IsComplete())

	_, err = coord.Resolve(context.Background(), resolveReq(domain.KindLoan, "M-1", "000001", domain.DecisionReject))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidTransition))
}
