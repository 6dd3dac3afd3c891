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

// SavingsServiceImpl implements ports.SavingsService.
type SavingsServiceImpl struct {
	members ports.MemberRepository
	savings ports.SavingsRepository
	logs    ports.TransactionLogRepository

	txnAttempts int
	now         func() time.Time
	newTxnID    txnIDFunc
	log         zerolog.Logger
}

// NewSavingsService creates a new savings service.
func NewSavingsService(
	members ports.MemberRepository,
	savings ports.SavingsRepository,
	logs ports.TransactionLogRepository,
	txnAttempts int,
	log zerolog.Logger,
) *SavingsServiceImpl {
	return &SavingsServiceImpl{
		members:     members,
		savings:     savings,
		logs:        logs,
		txnAttempts: txnAttempts,
		now:         time.Now,
		newTxnID:    domain.NewTxnID,
		log:         log,
	}
}

// Submit stores a pending deposit or withdrawal. A withdrawal larger than
// the current balance is refused up front; approval checks again.
func (s *SavingsServiceImpl) Submit(ctx context.Context, mc domain.MemberContext, in ports.SavingsInput) (*ports.SubmitResult, error) {
	ctx, span := tracing.Start(ctx, "SavingsService.Submit",
		attribute.String("member_id", mc.MemberID),
		attribute.String("kind", string(in.Kind)),
	)
	defer span.End()

	var typ domain.TransactionType
	switch in.Kind {
	case domain.SavingsDeposit:
		typ = domain.TransactionTypeDeposit
	case domain.SavingsWithdrawal:
		typ = domain.TransactionTypeWithdrawal
	default:
		return nil, apperror.Validation("kind must be deposit or withdrawal")
	}
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
	if in.Kind == domain.SavingsWithdrawal && in.Amount.GreaterThan(member.Balance) {
		return nil, apperror.ErrInsufficientBalance()
	}

	now := s.now().UTC()
	req := &domain.SavingsRequest{
		MemberID:    member.ID,
		Kind:        in.Kind,
		Amount:      in.Amount,
		Method:      in.Method,
		Account:     account,
		Status:      domain.SavingsStatusPending,
		SubmittedAt: now,
	}

	txnID, err := allocateTxnID(s.txnAttempts, s.newTxnID, func(id string) (bool, error) {
		req.TxnID = id
		return s.savings.CreatePending(ctx, req)
	}, nil)
	if err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("%s via %s", typ, in.Method)
	if err := s.logs.Upsert(ctx, pendingEntry(typ, member.ID, txnID, in.Amount, desc, now)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("write %s history %s: %w", in.Kind, txnID, err))
	}

	s.log.Info().
		Str("member_id", member.ID).
		Str("txn_id", txnID).
		Str("kind", string(in.Kind)).
		Str("amount", in.Amount.StringFixed(2)).
		Msg("Savings request submitted")

	return &ports.SubmitResult{TxnID: txnID, SubmittedAt: now}, nil
}
