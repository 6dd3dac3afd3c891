package service

import (
	"context"
	"fmt"
	"sort"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
	"loan-ledger/pkg/apperror"

	"github.com/shopspring/decimal"
)

// reportingService implements ports.ReportingService.
type reportingService struct {
	funds    ports.FundsRepository
	logs     ports.TransactionLogRepository
	apps     ports.LoanApplicationRepository
	payments ports.PaymentRepository
	savings  ports.SavingsRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(
	funds ports.FundsRepository,
	logs ports.TransactionLogRepository,
	apps ports.LoanApplicationRepository,
	payments ports.PaymentRepository,
	savings ports.SavingsRepository,
) ports.ReportingService {
	return &reportingService{
		funds:    funds,
		logs:     logs,
		apps:     apps,
		payments: payments,
		savings:  savings,
	}
}

// FundsPool returns the current shared liquidity.
func (s *reportingService) FundsPool(ctx context.Context) (decimal.Decimal, error) {
	amount, err := s.funds.Get(ctx)
	if err != nil {
		return decimal.Zero, apperror.InternalError(err)
	}
	return amount, nil
}

// ListTransactions returns a paginated list of a member's history entries.
func (s *reportingService) ListTransactions(ctx context.Context, params ports.TransactionLogListParams) ([]domain.TransactionLogEntry, int64, error) {
	if params.MemberID == "" {
		return nil, 0, apperror.Validation("member_id is required")
	}
	entries, total, err := s.logs.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(err)
	}
	return entries, total, nil
}

// ListPending returns one page of pending requests of a kind, oldest first.
func (s *reportingService) ListPending(ctx context.Context, kind domain.RequestKind, params ports.ListParams) ([]domain.PendingRequest, int64, error) {
	var (
		rows  []domain.PendingRequest
		total int64
	)

	switch kind {
	case domain.KindLoan:
		apps, n, err := s.apps.ListPending(ctx, params)
		if err != nil {
			return nil, 0, apperror.InternalError(fmt.Errorf("list pending loans: %w", err))
		}
		for _, a := range apps {
			rows = append(rows, domain.PendingRequest{Kind: kind, MemberID: a.MemberID, TxnID: a.TxnID, Amount: a.Amount, SubmittedAt: a.SubmittedAt})
		}
		total = n
	case domain.KindPayment:
		pays, n, err := s.payments.ListPending(ctx, params)
		if err != nil {
			return nil, 0, apperror.InternalError(fmt.Errorf("list pending payments: %w", err))
		}
		for _, p := range pays {
			rows = append(rows, domain.PendingRequest{Kind: kind, MemberID: p.MemberID, TxnID: p.TxnID, Amount: p.Amount, SubmittedAt: p.SubmittedAt})
		}
		total = n
	case domain.KindDeposit, domain.KindWithdrawal:
		savingsKind := domain.SavingsDeposit
		if kind == domain.KindWithdrawal {
			savingsKind = domain.SavingsWithdrawal
		}
		reqs, n, err := s.savings.ListPending(ctx, savingsKind, params)
		if err != nil {
			return nil, 0, apperror.InternalError(fmt.Errorf("list pending %s: %w", kind, err))
		}
		for _, r := range reqs {
			rows = append(rows, domain.PendingRequest{Kind: kind, MemberID: r.MemberID, TxnID: r.TxnID, Amount: r.Amount, SubmittedAt: r.SubmittedAt})
		}
		total = n
	default:
		return nil, 0, apperror.Validation("kind must be one of loan, payment, deposit, withdrawal")
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].SubmittedAt.Before(rows[j].SubmittedAt) })
	if rows == nil {
		rows = []domain.PendingRequest{}
	}
	return rows, total, nil
}
