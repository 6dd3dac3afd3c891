package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedMember(t *testing.T, s *Store, id, balance string) {
	t.Helper()
	require.NoError(t, s.Members().Create(context.Background(), &domain.Member{ID: id, Balance: d(balance)}))
}

func TestMemberRepo_AdjustBalanceOncePerKey(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedMember(t, s, "m-1", "100")

	applied, err := s.Members().AdjustBalance(ctx, "m-1", "deposit:m-1:000001:3", d("50"))
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = s.Members().AdjustBalance(ctx, "m-1", "deposit:m-1:000001:3", d("50"))
	require.NoError(t, err)
	assert.False(t, applied)

	m, err := s.Members().GetByID(ctx, "m-1")
	require.NoError(t, err)
	assert.True(t, d("150").Equal(m.Balance))
}

func TestMemberRepo_MissingMember(t *testing.T) {
	s := NewStore()
	m, err := s.Members().GetByID(context.Background(), "ghost")
	assert.NoError(t, err)
	assert.Nil(t, m)

	_, err = s.Members().AdjustBalance(context.Background(), "ghost", "k", d("1"))
	assert.Error(t, err)
}

func TestFundsRepo_Adjust(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.Funds().Seed(d("1000"))

	_, err := s.Funds().Adjust(ctx, "loan:m-1:1:4", d("-400"))
	require.NoError(t, err)
	_, err = s.Funds().Adjust(ctx, "loan:m-1:1:4", d("-400"))
	require.NoError(t, err)

	v, err := s.Funds().Get(ctx)
	require.NoError(t, err)
	assert.True(t, d("600").Equal(v))
}

func TestSettingsRepo_VersionsIncrease(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	empty, err := s.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Version)
	assert.Empty(t, empty.LoanTypes())

	first, err := s.Settings().Save(ctx, &domain.LoanSettings{Rates: domain.RateTable{"Regular": {6: d("3")}}})
	require.NoError(t, err)
	second, err := s.Settings().Save(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)
	assert.Equal(t, int64(2), second.Version)

	// Mutating a returned snapshot must not leak into the store.
	second.Rates["Regular"][6] = d("99")
	cur, _ := s.Settings().Get(ctx)
	rate, _ := cur.Rate("Regular", 6)
	assert.True(t, d("3").Equal(rate))
}

func TestLoanApplicationRepo_OnePendingPerMember(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().LoanApplications()

	created, err := repo.CreatePending(ctx, &domain.LoanApplication{MemberID: "m-1", TxnID: "000001"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreatePending(ctx, &domain.LoanApplication{MemberID: "m-1", TxnID: "000002"})
	require.NoError(t, err)
	assert.False(t, created)

	has, _ := repo.HasPending(ctx, "m-1")
	assert.True(t, has)
	has, _ = repo.HasPending(ctx, "m-2")
	assert.False(t, has)
}

func TestLoanApplicationRepo_ResolvedIDNotReused(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().LoanApplications()
	require.NoError(t, repo.SaveResolved(ctx, &domain.LoanApplication{MemberID: "m-1", TxnID: "000001", Status: domain.LoanStatusRejected}))

	created, err := repo.CreatePending(ctx, &domain.LoanApplication{MemberID: "m-1", TxnID: "000001"})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestPaymentRepo_ListPendingPaged(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Payments()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"000003", "000001", "000002"} {
		_, err := repo.CreatePending(ctx, &domain.PaymentRequest{MemberID: "m-1", TxnID: id, SubmittedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	items, total, err := repo.ListPending(ctx, ports.ListParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 1)
	assert.Equal(t, "000002", items[0].TxnID)
}

func TestSavingsRepo_KindsAreSeparate(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Savings()
	_, err := repo.CreatePending(ctx, &domain.SavingsRequest{Kind: domain.SavingsDeposit, MemberID: "m-1", TxnID: "000001"})
	require.NoError(t, err)

	created, err := repo.CreatePending(ctx, &domain.SavingsRequest{Kind: domain.SavingsWithdrawal, MemberID: "m-1", TxnID: "000001"})
	require.NoError(t, err)
	assert.True(t, created)

	got, _ := repo.GetPending(ctx, domain.SavingsWithdrawal, "m-1", "000001")
	require.NotNil(t, got)
	require.NoError(t, repo.DeletePending(ctx, domain.SavingsWithdrawal, "m-1", "000001"))
	got, _ = repo.GetPending(ctx, domain.SavingsWithdrawal, "m-1", "000001")
	assert.Nil(t, got)
	got, _ = repo.GetPending(ctx, domain.SavingsDeposit, "m-1", "000001")
	assert.NotNil(t, got)
}

func TestTransactionLogRepo_UpsertKeepsOneEntry(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().TransactionLogs()
	created := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, &domain.TransactionLogEntry{Type: domain.TransactionTypeLoan, MemberID: "m-1", TxnID: "000001", Status: domain.EntryStatusPending, CreatedAt: created}))
	require.NoError(t, repo.Upsert(ctx, &domain.TransactionLogEntry{Type: domain.TransactionTypeLoan, MemberID: "m-1", TxnID: "000001", Status: domain.EntryStatusApproved, CreatedAt: created.Add(time.Hour)}))
	require.NoError(t, repo.Upsert(ctx, &domain.TransactionLogEntry{Type: domain.TransactionTypeDeposit, MemberID: "m-1", TxnID: "000001", Status: domain.EntryStatusPending, CreatedAt: created}))

	all, total, err := repo.List(ctx, ports.TransactionLogListParams{MemberID: "m-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	loanType := domain.TransactionTypeLoan
	loans, _, err := repo.List(ctx, ports.TransactionLogListParams{MemberID: "m-1", Type: &loanType})
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, domain.EntryStatusApproved, loans[0].Status)
	assert.Equal(t, created, loans[0].CreatedAt)
}

func TestResolutionRepo_ListIncomplete(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Resolutions()
	base := time.Now()
	for i, st := range []domain.ResolutionStatus{domain.ResolutionFailed, domain.ResolutionCompleted, domain.ResolutionInProgress} {
		created, err := repo.Create(ctx, &domain.Resolution{
			Kind: domain.KindDeposit, MemberID: "m-1", TxnID: string(rune('a' + i)), Status: st, StartedAt: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
		assert.True(t, created)
	}
	created, err := repo.Create(ctx, &domain.Resolution{Kind: domain.KindDeposit, MemberID: "m-1", TxnID: "a"})
	require.NoError(t, err)
	assert.False(t, created)

	out, err := repo.ListIncomplete(ctx, 10)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].TxnID)
	assert.Equal(t, "c", out[1].TxnID)
}

func TestResolutionRepo_ListIncompleteForLoan(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Resolutions()
	payment := func(txnID, loanTxnID string, st domain.ResolutionStatus) *domain.Resolution {
		return &domain.Resolution{
			Kind: domain.KindPayment, MemberID: "m-1", TxnID: txnID, Status: st,
			Effect: domain.Effect{Payment: &domain.PaymentRequest{LoanTxnID: loanTxnID}},
		}
	}
	for _, r := range []*domain.Resolution{
		payment("000001", "000500", domain.ResolutionFailed),
		payment("000002", "000500", domain.ResolutionCompleted),
		payment("000003", "000600", domain.ResolutionInProgress),
		payment("000004", "", domain.ResolutionFailed),
	} {
		_, err := repo.Create(ctx, r)
		require.NoError(t, err)
	}

	out, err := repo.ListIncompleteForLoan(ctx, "m-1", "000500")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "000001", out[0].TxnID)

	out, err = repo.ListIncompleteForLoan(ctx, "m-2", "000500")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCurrentLoanRepo_ApplyRepayment(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := s.CurrentLoans()
	require.NoError(t, repo.Save(ctx, &domain.CurrentLoan{
		MemberID: "m-1", TxnID: "000500", OutstandingBalance: d("1000"), InterestPaid: d("0"),
		Status: domain.LoanStatusApproved,
	}))
	at := time.Now()

	applied, err := repo.ApplyRepayment(ctx, "m-1", "000500", "payment:m-1:000001:5",
		domain.PaymentAllocation{Principal: d("400"), Interest: d("50")}, at)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.ApplyRepayment(ctx, "m-1", "000500", "payment:m-1:000001:5",
		domain.PaymentAllocation{Principal: d("400"), Interest: d("50")}, at)
	require.NoError(t, err)
	assert.False(t, applied)

	loan, err := repo.Get(ctx, "m-1", "000500")
	require.NoError(t, err)
	assert.True(t, d("600").Equal(loan.OutstandingBalance))
	assert.True(t, d("50").Equal(loan.InterestPaid))

	applied, err = repo.ApplyRepayment(ctx, "m-1", "000500", "payment:m-1:000002:5",
		domain.PaymentAllocation{Principal: d("600")}, at)
	require.NoError(t, err)
	assert.True(t, applied)
	loan, err = repo.Get(ctx, "m-1", "000500")
	require.NoError(t, err)
	assert.Nil(t, loan)

	// Replaying an applied repayment on a closed loan does not bring it back.
	applied, err = repo.ApplyRepayment(ctx, "m-1", "000500", "payment:m-1:000001:5",
		domain.PaymentAllocation{Principal: d("400")}, at)
	require.NoError(t, err)
	assert.False(t, applied)
	loan, err = repo.Get(ctx, "m-1", "000500")
	require.NoError(t, err)
	assert.Nil(t, loan)

	_, err = repo.ApplyRepayment(ctx, "m-1", "000500", "payment:m-1:000003:5",
		domain.PaymentAllocation{Principal: d("1")}, at)
	assert.Error(t, err)
}

func TestStore_FailNextIsOneShot(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("disk full")
	s.FailNext(OpFundsAdjust, boom)

	_, err := s.Funds().Adjust(ctx, "k1", d("1"))
	assert.ErrorIs(t, err, boom)
	_, err = s.Funds().Adjust(ctx, "k1", d("1"))
	assert.NoError(t, err)
}

func TestLocker_SerializesKey(t *testing.T) {
	ctx := context.Background()
	l := NewLocker(50 * time.Millisecond)

	lease, err := l.Acquire(ctx, "member:m-1")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "member:m-1")
	assert.ErrorIs(t, err, ErrLockTimeout)

	other, err := l.Acquire(ctx, "member:m-2")
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = lease.Release(ctx)
	}()
	again, err := l.Acquire(ctx, "member:m-1")
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
	require.NoError(t, lease.Release(ctx), "double release is harmless")
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(2 * time.Minute)
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}
