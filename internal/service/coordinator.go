package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
	"loan-ledger/pkg/apperror"
	"loan-ledger/pkg/tracing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// LedgerStores groups the repositories a resolution reads and writes.
type LedgerStores struct {
	Members      ports.MemberRepository
	Funds        ports.FundsRepository
	Applications ports.LoanApplicationRepository
	CurrentLoans ports.CurrentLoanRepository
	Payments     ports.PaymentRepository
	Savings      ports.SavingsRepository
	Logs         ports.TransactionLogRepository
	Resolutions  ports.ResolutionRepository
}

// LedgerCoordinatorImpl implements ports.LedgerCoordinator.
//
// A resolution is computed once, persisted as a progress marker, and then
// applied as an ordered list of writes. Each write is recorded in the marker
// as it succeeds, so a failed resolution resumes from the next step with the
// same effect. Balance and pool increments are keyed so a replayed step is
// a no-op.
type LedgerCoordinatorImpl struct {
	stores   LedgerStores
	locker   ports.Locker
	cache    ports.ResolutionCache
	notifier ports.Notifier
	audit    ports.AuditService

	cacheTTL time.Duration
	loc      *time.Location
	now      func() time.Time
	log      zerolog.Logger
}

// NewLedgerCoordinator creates a coordinator. cache and notifier may be nil.
func NewLedgerCoordinator(
	stores LedgerStores,
	locker ports.Locker,
	cache ports.ResolutionCache,
	notifier ports.Notifier,
	audit ports.AuditService,
	cacheTTL time.Duration,
	loc *time.Location,
	log zerolog.Logger,
) *LedgerCoordinatorImpl {
	return &LedgerCoordinatorImpl{
		stores:   stores,
		locker:   locker,
		cache:    cache,
		notifier: notifier,
		audit:    audit,
		cacheTTL: cacheTTL,
		loc:      loc,
		now:      time.Now,
		log:      log,
	}
}

// Resolve approves or rejects one pending request. Repeating a completed
// resolution with the same decision returns it unchanged.
func (c *LedgerCoordinatorImpl) Resolve(ctx context.Context, req ports.ResolveRequest) (*domain.Resolution, error) {
	if err := validateResolve(req); err != nil {
		return nil, err
	}

	ctx, span := tracing.Start(ctx, "LedgerCoordinator.Resolve",
		attribute.String("kind", string(req.Kind)),
		attribute.String("member_id", req.MemberID),
		attribute.String("txn_id", req.TxnID),
		attribute.String("decision", string(req.Decision)),
	)
	defer span.End()

	key := domain.ResolutionKey(req.Kind, req.MemberID, req.TxnID)
	if cached := c.cached(ctx, key); cached != nil {
		return sameDecision(cached, req.Decision)
	}

	release, err := c.lock(ctx, memberLockKey(req.MemberID))
	if err != nil {
		return nil, err
	}
	defer release()

	marker, err := c.stores.Resolutions.Get(ctx, req.Kind, req.MemberID, req.TxnID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load resolution %s: %w", key, err))
	}

	if marker == nil {
		marker, err = c.plan(ctx, req)
		if err != nil {
			return nil, err
		}
		created, err := c.stores.Resolutions.Create(ctx, marker)
		if err != nil {
			return nil, apperror.ErrStorageFailure(0, "progress marker", err)
		}
		if !created {
			return nil, apperror.ErrStorageFailure(0, "progress marker", fmt.Errorf("resolution %s already exists", key))
		}
	} else if _, err := sameDecision(marker, req.Decision); err != nil {
		return nil, err
	}

	if loanTxnID := boundLoan(marker); loanTxnID != "" {
		releaseLoan, err := c.lock(ctx, loanLockKey(req.MemberID, loanTxnID))
		if err != nil {
			return nil, err
		}
		defer releaseLoan()
	}

	if marker.IsComplete() {
		c.remember(ctx, marker)
		return marker, nil
	}

	resolved, err := c.run(ctx, marker)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	c.afterComplete(ctx, resolved, req.Staff)
	return resolved, nil
}

// Resume continues an incomplete resolution from the step after the last
// one recorded, using the persisted effect.
func (c *LedgerCoordinatorImpl) Resume(ctx context.Context, r *domain.Resolution) (*domain.Resolution, error) {
	ctx, span := tracing.Start(ctx, "LedgerCoordinator.Resume", attribute.String("key", r.Key()))
	defer span.End()

	release, err := c.lock(ctx, memberLockKey(r.MemberID))
	if err != nil {
		return nil, err
	}
	defer release()
	if loanTxnID := boundLoan(r); loanTxnID != "" {
		releaseLoan, err := c.lock(ctx, loanLockKey(r.MemberID, loanTxnID))
		if err != nil {
			return nil, err
		}
		defer releaseLoan()
	}

	// Re-read under the lock; the caller's copy may be stale.
	marker, err := c.stores.Resolutions.Get(ctx, r.Kind, r.MemberID, r.TxnID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load resolution %s: %w", r.Key(), err))
	}
	if marker == nil {
		return nil, apperror.ErrNotFound("resolution")
	}
	if marker.IsComplete() {
		return marker, nil
	}

	resolved, err := c.run(ctx, marker)
	if err != nil {
		return nil, err
	}
	c.afterComplete(ctx, resolved, domain.MemberContext{MemberID: resolved.ResolvedBy, Role: domain.RoleStaff})
	return resolved, nil
}

func validateResolve(req ports.ResolveRequest) error {
	if !req.Staff.IsStaff() {
		return apperror.ErrForbidden()
	}
	if !req.Kind.IsValid() {
		return apperror.Validation("kind must be one of loan, payment, deposit, withdrawal")
	}
	if !req.Decision.IsValid() {
		return apperror.Validation("decision must be approve or reject")
	}
	if req.MemberID == "" || req.TxnID == "" {
		return apperror.Validation("member_id and txn_id are required")
	}
	return nil
}

func sameDecision(r *domain.Resolution, decision domain.Decision) (*domain.Resolution, error) {
	if r.Decision != decision {
		return nil, apperror.ErrInvalidTransition(string(r.Decision.EntryStatus()), string(decision.EntryStatus()))
	}
	return r, nil
}

func boundLoan(r *domain.Resolution) string {
	return r.LoanTxnID()
}

func memberLockKey(memberID string) string { return "member:" + memberID }

func loanLockKey(memberID, loanTxnID string) string {
	return "loan:" + memberID + ":" + loanTxnID
}

// lock acquires key. The member lock is always taken before a loan lock.
func (c *LedgerCoordinatorImpl) lock(ctx context.Context, key string) (func(), error) {
	lease, err := c.locker.Acquire(ctx, key)
	if err != nil {
		return nil, apperror.ErrLockTimeout(err)
	}
	return func() {
		// The caller's context may already be done; the lease must still go.
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			c.log.Warn().Err(err).Str("lock", key).Msg("Failed to release lock")
		}
	}, nil
}

// plan reads the pending request and computes the full effect of the
// decision. Nothing is written.
func (c *LedgerCoordinatorImpl) plan(ctx context.Context, req ports.ResolveRequest) (*domain.Resolution, error) {
	now := c.now().UTC()
	r := &domain.Resolution{
		Kind:       req.Kind,
		MemberID:   req.MemberID,
		TxnID:      req.TxnID,
		Decision:   req.Decision,
		Reason:     req.Reason,
		Status:     domain.ResolutionInProgress,
		ResolvedBy: req.Staff.MemberID,
		StartedAt:  now,
		UpdatedAt:  now,
	}

	var err error
	switch req.Kind {
	case domain.KindLoan:
		err = c.planLoan(ctx, r, now)
	case domain.KindPayment:
		err = c.planPayment(ctx, r, now)
	default:
		err = c.planSavings(ctx, r, now)
	}
	if err != nil {
		return nil, err
	}

	r.Effect.LogEntry = domain.TransactionLogEntry{
		Type:        req.Kind.TransactionType(),
		MemberID:    r.MemberID,
		TxnID:       r.TxnID,
		Amount:      r.Effect.Amount,
		Status:      req.Decision.EntryStatus(),
		Description: describe(r),
		CreatedAt:   r.Effect.SubmittedAt,
		UpdatedAt:   now,
	}
	return r, nil
}

func (c *LedgerCoordinatorImpl) planLoan(ctx context.Context, r *domain.Resolution, now time.Time) error {
	app, err := c.stores.Applications.GetPending(ctx, r.MemberID, r.TxnID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load loan application: %w", err))
	}
	if app == nil {
		return apperror.ErrNotFound("loan application")
	}
	if _, err := loadMember(ctx, c.stores.Members, r.MemberID); err != nil {
		return err
	}

	r.Effect.Amount = app.Amount
	r.Effect.SubmittedAt = app.SubmittedAt
	r.Effect.Application = app

	if r.Decision == domain.DecisionReject {
		return transitionError(app.Reject(r.ResolvedBy, r.Reason, now))
	}
	loan, err := app.Approve(r.ResolvedBy, now)
	if err != nil {
		return transitionError(err)
	}
	r.Effect.PoolDelta = app.ReleaseAmount().Neg()
	r.Effect.LoanAction = domain.LoanActionCreate
	r.Effect.Loan = loan
	return nil
}

func (c *LedgerCoordinatorImpl) planPayment(ctx context.Context, r *domain.Resolution, now time.Time) error {
	p, err := c.stores.Payments.GetPending(ctx, r.MemberID, r.TxnID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load payment request: %w", err))
	}
	if p == nil {
		return apperror.ErrNotFound("payment request")
	}
	if _, err := loadMember(ctx, c.stores.Members, r.MemberID); err != nil {
		return err
	}

	r.Effect.Amount = p.Amount
	r.Effect.SubmittedAt = p.SubmittedAt
	r.Effect.Payment = p

	if r.Decision == domain.DecisionReject {
		return transitionError(p.Reject(r.ResolvedBy, r.Reason, now))
	}

	var loan *domain.CurrentLoan
	alloc := domain.Allocate(nil, decimal.Zero, p.Amount, 0)
	if p.IsLoanBound() {
		loan, err = c.stores.CurrentLoans.Get(ctx, r.MemberID, p.LoanTxnID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("load current loan: %w", err))
		}
		if loan == nil {
			return apperror.ErrNotFound("current loan")
		}
		if err := c.requireLoanSettled(ctx, r, p.LoanTxnID); err != nil {
			return err
		}
		days := domain.OverdueDays(loan.DueDate, now, c.loc)
		alloc = domain.Allocate(loan, loan.InterestAmount, p.Amount, days)
	}

	if err := p.Approve(alloc, r.ResolvedBy, now); err != nil {
		return transitionError(err)
	}
	r.Effect.BalanceDelta = alloc.Excess
	r.Effect.PoolDelta = p.Amount

	if loan != nil {
		updated := *loan
		closed, err := updated.ApplyRepayment(alloc, now)
		if err != nil {
			return transitionError(err)
		}
		r.Effect.Loan = &updated
		r.Effect.LoanAction = domain.LoanActionUpdate
		if closed {
			r.Effect.LoanAction = domain.LoanActionRemove
		}
	}
	return nil
}

// requireLoanSettled refuses to plan against a loan while another payment on
// it still has writes outstanding, since its balance is not final yet.
func (c *LedgerCoordinatorImpl) requireLoanSettled(ctx context.Context, r *domain.Resolution, loanTxnID string) error {
	open, err := c.stores.Resolutions.ListIncompleteForLoan(ctx, r.MemberID, loanTxnID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("check resolutions on loan %s: %w", loanTxnID, err))
	}
	for _, other := range open {
		if other.Key() != r.Key() {
			return apperror.ErrLoanInFlight(loanTxnID, other.Key())
		}
	}
	return nil
}

func (c *LedgerCoordinatorImpl) planSavings(ctx context.Context, r *domain.Resolution, now time.Time) error {
	kind := domain.SavingsDeposit
	if r.Kind == domain.KindWithdrawal {
		kind = domain.SavingsWithdrawal
	}
	s, err := c.stores.Savings.GetPending(ctx, kind, r.MemberID, r.TxnID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load %s request: %w", kind, err))
	}
	if s == nil {
		return apperror.ErrNotFound(string(kind) + " request")
	}
	member, err := loadMember(ctx, c.stores.Members, r.MemberID)
	if err != nil {
		return err
	}

	r.Effect.Amount = s.Amount
	r.Effect.SubmittedAt = s.SubmittedAt
	r.Effect.Savings = s

	if r.Decision == domain.DecisionReject {
		return transitionError(s.Resolve(domain.SavingsStatusRejected, r.ResolvedBy, r.Reason, now))
	}
	if kind == domain.SavingsWithdrawal && s.Amount.GreaterThan(member.Balance) {
		return apperror.ErrInsufficientBalance()
	}
	if err := s.Resolve(domain.SavingsStatusApproved, r.ResolvedBy, "", now); err != nil {
		return transitionError(err)
	}
	r.Effect.BalanceDelta = s.SignedAmount()
	r.Effect.PoolDelta = s.SignedAmount()
	return nil
}

func transitionError(err error) error {
	if err == nil {
		return nil
	}
	var te *domain.InvalidTransitionError
	if errors.As(err, &te) {
		return apperror.ErrInvalidTransition(te.From, te.To)
	}
	return apperror.Validation(err.Error())
}

func describe(r *domain.Resolution) string {
	if r.Decision == domain.DecisionReject {
		if r.Reason == "" {
			return "Rejected"
		}
		return "Rejected: " + r.Reason
	}
	e := r.Effect
	switch {
	case e.Application != nil:
		return fmt.Sprintf("%s loan approved, %s released", e.Application.LoanType, e.Application.ReleaseAmount().StringFixed(2))
	case e.Payment != nil && e.Payment.Allocation != nil:
		a := e.Payment.Allocation
		return fmt.Sprintf("Penalty %s, interest %s, principal %s, excess %s",
			a.Penalty.StringFixed(2), a.Interest.StringFixed(2), a.Principal.StringFixed(2), a.Excess.StringFixed(2))
	default:
		return "Approved"
	}
}

// run applies the remaining steps in order and marks the resolution
// completed. The first failure stops the sequence; nothing is undone.
func (c *LedgerCoordinatorImpl) run(ctx context.Context, r *domain.Resolution) (*domain.Resolution, error) {
	for _, step := range r.RemainingSteps() {
		if err := c.apply(ctx, r, step); err != nil {
			r.Status = domain.ResolutionFailed
			r.FailedStep = step
			r.LastError = err.Error()
			r.UpdatedAt = c.now().UTC()
			if serr := c.stores.Resolutions.Save(ctx, r); serr != nil {
				c.log.Error().Err(serr).Str("key", r.Key()).Msg("Failed to record resolution failure")
			}
			c.log.Error().Err(err).
				Str("key", r.Key()).
				Int("step", int(step)).
				Str("step_name", step.String()).
				Msg("Resolution step failed")
			return nil, apperror.ErrStorageFailure(int(step), step.String(), err)
		}

		r.LastStep = step
		r.Status = domain.ResolutionInProgress
		r.FailedStep = 0
		r.LastError = ""
		r.UpdatedAt = c.now().UTC()
		if err := c.stores.Resolutions.Save(ctx, r); err != nil {
			// The write landed but is not recorded; resuming replays it.
			return nil, apperror.ErrStorageFailure(int(step), step.String(), fmt.Errorf("record progress: %w", err))
		}
	}

	done := c.now().UTC()
	r.Status = domain.ResolutionCompleted
	r.CompletedAt = &done
	r.UpdatedAt = done
	if err := c.stores.Resolutions.Save(ctx, r); err != nil {
		return nil, apperror.ErrStorageFailure(int(r.LastStep), "progress marker", fmt.Errorf("record completion: %w", err))
	}
	return r, nil
}

func (c *LedgerCoordinatorImpl) apply(ctx context.Context, r *domain.Resolution, step domain.Step) error {
	e := &r.Effect
	switch step {
	case domain.StepResolvedRecord:
		switch {
		case e.Application != nil:
			return c.stores.Applications.SaveResolved(ctx, e.Application)
		case e.Payment != nil:
			return c.stores.Payments.SaveResolved(ctx, e.Payment)
		case e.Savings != nil:
			return c.stores.Savings.SaveResolved(ctx, e.Savings)
		}
		return fmt.Errorf("resolution %s carries no request", r.Key())

	case domain.StepTransactionLog:
		return c.stores.Logs.Upsert(ctx, &e.LogEntry)

	case domain.StepMemberBalance:
		applied, err := c.stores.Members.AdjustBalance(ctx, r.MemberID, r.EffectKey(step), e.BalanceDelta)
		if err == nil && !applied {
			c.log.Debug().Str("key", r.Key()).Msg("Balance increment already applied")
		}
		return err

	case domain.StepFundsPool:
		applied, err := c.stores.Funds.Adjust(ctx, r.EffectKey(step), e.PoolDelta)
		if err == nil && !applied {
			c.log.Debug().Str("key", r.Key()).Msg("Funds pool increment already applied")
		}
		return err

	case domain.StepCurrentLoan:
		if e.Loan == nil {
			return fmt.Errorf("resolution %s has loan action %q without a loan", r.Key(), e.LoanAction)
		}
		if e.LoanAction == domain.LoanActionCreate {
			return c.stores.CurrentLoans.Save(ctx, e.Loan)
		}
		if e.Payment == nil || e.Payment.Allocation == nil {
			return fmt.Errorf("resolution %s updates a loan without an allocation", r.Key())
		}
		applied, err := c.stores.CurrentLoans.ApplyRepayment(ctx, e.Loan.MemberID, e.Loan.TxnID,
			r.EffectKey(step), *e.Payment.Allocation, e.Loan.UpdatedAt)
		if err == nil && !applied {
			c.log.Debug().Str("key", r.Key()).Msg("Repayment already applied to loan")
		}
		return err

	case domain.StepDeletePending:
		switch {
		case e.Application != nil:
			return c.stores.Applications.DeletePending(ctx, r.MemberID, r.TxnID)
		case e.Payment != nil:
			return c.stores.Payments.DeletePending(ctx, r.MemberID, r.TxnID)
		case e.Savings != nil:
			return c.stores.Savings.DeletePending(ctx, e.Savings.Kind, r.MemberID, r.TxnID)
		}
		return fmt.Errorf("resolution %s carries no request", r.Key())
	}
	return fmt.Errorf("unknown step %d", int(step))
}

func (c *LedgerCoordinatorImpl) afterComplete(ctx context.Context, r *domain.Resolution, actor domain.MemberContext) {
	c.remember(ctx, r)

	if c.notifier != nil {
		if err := c.notifier.Notify(ctx, domain.NotificationFor(r)); err != nil {
			c.log.Warn().Err(err).Str("key", r.Key()).Msg("Failed to enqueue notification")
		}
	}

	details, _ := json.Marshal(map[string]any{
		"decision":      r.Decision,
		"reason":        r.Reason,
		"balance_delta": r.Effect.BalanceDelta,
		"pool_delta":    r.Effect.PoolDelta,
		"loan_action":   r.Effect.LoanAction,
	})
	c.audit.Log(ctx, &domain.AuditLog{
		ActorID:      actor.MemberID,
		ActorRole:    actor.Role,
		Action:       domain.AuditActionResolve,
		ResourceType: string(r.Kind),
		ResourceID:   r.MemberID + ":" + r.TxnID,
		Details:      string(details),
	})

	c.log.Info().
		Str("kind", string(r.Kind)).
		Str("member_id", r.MemberID).
		Str("txn_id", r.TxnID).
		Str("decision", string(r.Decision)).
		Str("balance_delta", r.Effect.BalanceDelta.String()).
		Str("pool_delta", r.Effect.PoolDelta.String()).
		Msg("Request resolved")
}

func (c *LedgerCoordinatorImpl) cached(ctx context.Context, key string) *domain.Resolution {
	if c.cache == nil {
		return nil
	}
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Resolution cache read failed")
		return nil
	}
	if raw == nil {
		return nil
	}
	var r domain.Resolution
	if err := json.Unmarshal(raw, &r); err != nil || !r.IsComplete() {
		return nil
	}
	return &r
}

// remember caches a completed resolution. Best-effort.
func (c *LedgerCoordinatorImpl) remember(ctx context.Context, r *domain.Resolution) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, r.Key(), raw, c.cacheTTL); err != nil {
		c.log.Warn().Err(err).Str("key", r.Key()).Msg("Failed to cache resolution")
	}
}
