package service

import (
	"context"
	"fmt"
	"time"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
	"loan-ledger/pkg/apperror"
	"loan-ledger/pkg/tracing"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// PaymentServiceImpl implements ports.PaymentService.
type PaymentServiceImpl struct {
	members  ports.MemberRepository
	current  ports.CurrentLoanRepository
	payments ports.PaymentRepository
	logs     ports.TransactionLogRepository

	txnAttempts int
	loc         *time.Location
	now         func() time.Time
	newTxnID    txnIDFunc
	log         zerolog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	members ports.MemberRepository,
	current ports.CurrentLoanRepository,
	payments ports.PaymentRepository,
	logs ports.TransactionLogRepository,
	txnAttempts int,
	loc *time.Location,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		members:     members,
		current:     current,
		payments:    payments,
		logs:        logs,
		txnAttempts: txnAttempts,
		loc:         loc,
		now:         time.Now,
		newTxnID:    domain.NewTxnID,
		log:         log,
	}
}

// Submit stores a pending repayment. A payment with no loan reference is
// credited to the member's balance on approval.
func (s *PaymentServiceImpl) Submit(ctx context.Context, mc domain.MemberContext, in ports.PaymentInput) (*ports.SubmitResult, error) {
	ctx, span := tracing.Start(ctx, "PaymentService.Submit", attribute.String("member_id", mc.MemberID))
	defer span.End()

	if err := requirePositive(in.Amount); err != nil {
		return nil, err
	}

	member, err := loadMember(ctx, s.members, mc.MemberID)
	if err != nil {
		return nil, err
	}
	account, err := accountFor(member, in.Method)
	if err != nil {
		return nil, err
	}

	desc := "Savings payment"
	if in.LoanTxnID != "" {
		loan, err := s.current.Get(ctx, member.ID, in.LoanTxnID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("load loan %s: %w", in.LoanTxnID, err))
		}
		if loan == nil {
			return nil, apperror.ErrNotFound("current loan")
		}
		desc = fmt.Sprintf("Payment for %s loan %s", loan.LoanType, loan.TxnID)
	}

	now := s.now().UTC()
	payment := &domain.PaymentRequest{
		MemberID:    member.ID,
		LoanTxnID:   in.LoanTxnID,
		Amount:      in.Amount,
		Method:      in.Method,
		Account:     account,
		Status:      domain.PaymentStatusPending,
		SubmittedAt: now,
	}

	txnID, err := allocateTxnID(s.txnAttempts, s.newTxnID, func(id string) (bool, error) {
		payment.TxnID = id
		return s.payments.CreatePending(ctx, payment)
	}, nil)
	if err != nil {
		return nil, err
	}

	if err := s.logs.Upsert(ctx, pendingEntry(domain.TransactionTypePayment, member.ID, txnID, in.Amount, desc, now)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("write payment history %s: %w", txnID, err))
	}

	s.log.Info().
		Str("member_id", member.ID).
		Str("txn_id", txnID).
		Str("loan_txn_id", in.LoanTxnID).
		Str("amount", in.Amount.StringFixed(2)).
		Msg("Payment submitted")

	return &ports.SubmitResult{TxnID: txnID, SubmittedAt: now}, nil
}

// Quote returns what is owed on the member's loan today.
func (s *PaymentServiceImpl) Quote(ctx context.Context, mc domain.MemberContext, loanTxnID string) (*domain.LoanQuote, error) {
	loan, err := s.current.Get(ctx, mc.MemberID, loanTxnID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load loan %s: %w", loanTxnID, err))
	}
	if loan == nil {
		return nil, apperror.ErrNotFound("current loan")
	}
	q := domain.Quote(loan, s.now(), s.loc)
	return &q, nil
}
