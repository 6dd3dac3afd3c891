package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"loan-ledger/internal/adapter/storage/memory"
	"loan-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	manila = time.FixedZone("PHT", 8*60*60)
	staff  = domain.MemberContext{MemberID: "S-1", Email: "staff@coop.example", Role: domain.RoleStaff}
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}

// ledgerEnv wires every service against one in-memory store with a fixed clock.
type ledgerEnv struct {
	store    *memory.Store
	now      time.Time
	loans    *LoanServiceImpl
	payments *PaymentServiceImpl
	savings  *SavingsServiceImpl
	coord    *LedgerCoordinatorImpl
	recon    *ReconciliationServiceImpl
}

func newLedgerEnv(t *testing.T) *ledgerEnv {
	t.Helper()
	store := memory.NewStore()
	now := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC) // 10:00 in Manila
	clock := func() time.Time { return now }
	log := newTestLogger()
	audit := NewAuditService(nil, log)

	ids := 0
	nextID := func() (string, error) {
		ids++
		return fmt.Sprintf("%06d", ids), nil
	}

	e := &ledgerEnv{store: store, now: now}
	e.loans = NewLoanService(store.Members(), store.Settings(), store.LoanApplications(), store.CurrentLoans(), store.TransactionLogs(), 5, manila, log)
	e.loans.now, e.loans.newTxnID = clock, nextID
	e.payments = NewPaymentService(store.Members(), store.CurrentLoans(), store.Payments(), store.TransactionLogs(), 5, manila, log)
	e.payments.now, e.payments.newTxnID = clock, nextID
	e.savings = NewSavingsService(store.Members(), store.Savings(), store.TransactionLogs(), 5, log)
	e.savings.now, e.savings.newTxnID = clock, nextID

	e.coord = NewLedgerCoordinator(ledgerStores(store), memory.NewLocker(2*time.Second), memory.NewCache(), nil, audit, time.Hour, manila, log)
	e.coord.now = clock
	e.recon = NewReconciliationService(store.Resolutions(), e.coord, audit, 50, log)

	_, err := store.Settings().Save(context.Background(), &domain.LoanSettings{
		Rates: domain.RateTable{
			"Regular":   {6: d("3"), 12: d("5")},
			"Emergency": {3: d("2")},
		},
		ProcessingFee:      d("100"),
		LoanablePercentage: d("80"),
	})
	require.NoError(t, err)
	return e
}

func ledgerStores(store *memory.Store) LedgerStores {
	return LedgerStores{
		Members:      store.Members(),
		Funds:        store.Funds(),
		Applications: store.LoanApplications(),
		CurrentLoans: store.CurrentLoans(),
		Payments:     store.Payments(),
		Savings:      store.Savings(),
		Logs:         store.TransactionLogs(),
		Resolutions:  store.Resolutions(),
	}
}

func (e *ledgerEnv) member(t *testing.T, id, balance string) domain.MemberContext {
	t.Helper()
	require.NoError(t, e.store.Members().Create(context.Background(), &domain.Member{
		ID:      id,
		Email:   id + "@coop.example",
		Balance: d(balance),
		Accounts: map[domain.DisbursementMethod]domain.DisbursementAccount{
			domain.MethodBank: {Name: "Ana Cruz", Number: "0012-3456-78"},
		},
	}))
	return domain.MemberContext{MemberID: id, Email: id + "@coop.example", Role: domain.RoleMember}
}

func (e *ledgerEnv) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	m, err := e.store.Members().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m.Balance
}

func (e *ledgerEnv) pool(t *testing.T) decimal.Decimal {
	t.Helper()
	v, err := e.store.Funds().Get(context.Background())
	require.NoError(t, err)
	return v
}

func (e *ledgerEnv) settingsVersion(t *testing.T) int64 {
	t.Helper()
	s, err := e.store.Settings().Get(context.Background())
	require.NoError(t, err)
	return s.Version
}

func (e *ledgerEnv) seedLoan(t *testing.T, loan domain.CurrentLoan) {
	t.Helper()
	require.NoError(t, e.store.CurrentLoans().Save(context.Background(), &loan))
}
