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
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// LoanServiceImpl implements ports.LoanService.
type LoanServiceImpl struct {
	members  ports.MemberRepository
	settings ports.SettingsRepository
	apps     ports.LoanApplicationRepository
	current  ports.CurrentLoanRepository
	logs     ports.TransactionLogRepository

	txnAttempts int
	loc         *time.Location
	now         func() time.Time
	newTxnID    txnIDFunc
	log         zerolog.Logger
}

// NewLoanService creates a new loan service.
func NewLoanService(
	members ports.MemberRepository,
	settings ports.SettingsRepository,
	apps ports.LoanApplicationRepository,
	current ports.CurrentLoanRepository,
	logs ports.TransactionLogRepository,
	txnAttempts int,
	loc *time.Location,
	log zerolog.Logger,
) *LoanServiceImpl {
	return &LoanServiceImpl{
		members:     members,
		settings:    settings,
		apps:        apps,
		current:     current,
		logs:        logs,
		txnAttempts: txnAttempts,
		loc:         loc,
		now:         time.Now,
		newTxnID:    domain.NewTxnID,
		log:         log,
	}
}

// Options returns the data the application form needs: the settings
// snapshot, the term to preselect and the collateral threshold.
func (s *LoanServiceImpl) Options(ctx context.Context, mc domain.MemberContext, loanType string, previousTerm int, amount decimal.Decimal) (*ports.LoanOptions, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load settings: %w", err))
	}
	member, err := loadMember(ctx, s.members, mc.MemberID)
	if err != nil {
		return nil, err
	}

	if loanType == "" {
		if types := settings.LoanTypes(); len(types) > 0 {
			loanType = types[0]
		}
	}
	term, ok := settings.ResolveTerm(loanType, previousTerm)

	return &ports.LoanOptions{
		Settings:           settings,
		LoanType:           loanType,
		Term:               term,
		TermAvailable:      ok,
		Balance:            member.Balance,
		LoanableAmount:     settings.LoanableAmount(member.Balance),
		RequiresCollateral: domain.RequiresCollateral(amount, member.Balance),
	}, nil
}

// Submit validates a loan application and stores it as pending along with
// its history entry.
func (s *LoanServiceImpl) Submit(ctx context.Context, mc domain.MemberContext, in ports.LoanApplicationInput, settings *domain.LoanSettings) (*ports.SubmitResult, error) {
	ctx, span := tracing.Start(ctx, "LoanService.Submit", attribute.String("member_id", mc.MemberID))
	defer span.End()

	if err := requirePositive(in.Amount); err != nil {
		return nil, err
	}

	if settings == nil {
		current, err := s.settings.Get(ctx)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("load settings: %w", err))
		}
		settings = current
	}
	if in.SettingsVersion != settings.Version {
		return nil, apperror.ErrStaleSettings(in.SettingsVersion, settings.Version)
	}

	rate, ok := settings.Rate(in.LoanType, in.TermMonths)
	if !ok {
		return nil, apperror.ErrNotConfigured(in.LoanType, in.TermMonths)
	}
	if settings.ProcessingFee.GreaterThanOrEqual(in.Amount) {
		return nil, apperror.Validation("loan amount must be greater than the processing fee")
	}

	member, err := loadMember(ctx, s.members, mc.MemberID)
	if err != nil {
		return nil, err
	}
	account, err := accountFor(member, in.Method)
	if err != nil {
		return nil, err
	}

	var collateral *domain.Collateral
	if domain.RequiresCollateral(in.Amount, member.Balance) {
		if !in.Collateral.IsValid() {
			return nil, apperror.ErrCollateralRequired()
		}
		c := *in.Collateral
		collateral = &c
	}

	pending, err := s.apps.HasPending(ctx, member.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check pending application: %w", err))
	}
	if pending {
		return nil, apperror.ErrDuplicatePending()
	}

	now := s.now().UTC()
	app := &domain.LoanApplication{
		MemberID:        member.ID,
		LoanType:        in.LoanType,
		Amount:          in.Amount,
		TermMonths:      in.TermMonths,
		InterestRate:    rate,
		ProcessingFee:   settings.ProcessingFee,
		SettingsVersion: settings.Version,
		Disbursement:    domain.Disbursement{Method: in.Method, Account: account},
		Collateral:      collateral,
		Status:          domain.LoanStatusPending,
		SubmittedAt:     now,
	}

	txnID, err := allocateTxnID(s.txnAttempts, s.newTxnID,
		func(id string) (bool, error) {
			app.TxnID = id
			return s.apps.CreatePending(ctx, app)
		},
		func() error {
			// CreatePending also refuses a second pending application, which
			// can appear between HasPending and the insert.
			pending, err := s.apps.HasPending(ctx, member.ID)
			if err != nil {
				return apperror.InternalError(err)
			}
			if pending {
				return apperror.ErrDuplicatePending()
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("%s loan, %d months", in.LoanType, in.TermMonths)
	if err := s.logs.Upsert(ctx, pendingEntry(domain.TransactionTypeLoan, member.ID, txnID, in.Amount, desc, now)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("write loan history %s: %w", txnID, err))
	}

	s.log.Info().
		Str("member_id", member.ID).
		Str("txn_id", txnID).
		Str("loan_type", in.LoanType).
		Int("term", in.TermMonths).
		Str("amount", in.Amount.StringFixed(2)).
		Bool("collateral", collateral != nil).
		Msg("Loan application submitted")

	return &ports.SubmitResult{TxnID: txnID, SubmittedAt: now}, nil
}

// ListCurrent returns the member's current loans with today's amount due.
func (s *LoanServiceImpl) ListCurrent(ctx context.Context, mc domain.MemberContext) ([]ports.CurrentLoanView, error) {
	loans, err := s.current.ListByMember(ctx, mc.MemberID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list current loans: %w", err))
	}
	now := s.now()
	views := make([]ports.CurrentLoanView, 0, len(loans))
	for i := range loans {
		views = append(views, ports.CurrentLoanView{
			Loan:  loans[i],
			Quote: domain.Quote(&loans[i], now, s.loc),
		})
	}
	return views, nil
}
