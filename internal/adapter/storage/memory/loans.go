package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
)

// LoanApplicationRepo implements ports.LoanApplicationRepository.
type LoanApplicationRepo struct{ s *Store }

// CreatePending inserts app unless the member already used its txn id.
func (r *LoanApplicationRepo) CreatePending(_ context.Context, app *domain.LoanApplication) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := memberTxnKey{app.MemberID, app.TxnID}
	if _, ok := r.s.pendingLoans[k]; ok {
		return false, nil
	}
	if _, ok := r.s.resolvedLoans[k]; ok {
		return false, nil
	}
	for pk := range r.s.pendingLoans {
		if pk.memberID == app.MemberID {
			return false, nil
		}
	}
	r.s.pendingLoans[k] = copyApplication(*app)
	return true, nil
}

// HasPending reports whether the member has a pending application.
func (r *LoanApplicationRepo) HasPending(_ context.Context, memberID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k := range r.s.pendingLoans {
		if k.memberID == memberID {
			return true, nil
		}
	}
	return false, nil
}

// GetPending fetches a pending application.
func (r *LoanApplicationRepo) GetPending(_ context.Context, memberID, txnID string) (*domain.LoanApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.pendingLoans[memberTxnKey{memberID, txnID}]
	if !ok {
		return nil, nil
	}
	c := copyApplication(a)
	return &c, nil
}

// ListPending lists pending applications oldest first.
func (r *LoanApplicationRepo) ListPending(_ context.Context, params ports.ListParams) ([]domain.LoanApplication, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]domain.LoanApplication, 0, len(r.s.pendingLoans))
	for _, a := range r.s.pendingLoans {
		all = append(all, copyApplication(a))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SubmittedAt.Before(all[j].SubmittedAt) })
	return page(all, params.Offset(), params.PageSize), int64(len(all)), nil
}

// DeletePending removes a pending application. Missing records are ignored.
func (r *LoanApplicationRepo) DeletePending(_ context.Context, memberID, txnID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpLoanDeletePending); err != nil {
		return err
	}
	delete(r.s.pendingLoans, memberTxnKey{memberID, txnID})
	return nil
}

// SaveResolved upserts the application in the resolved location.
func (r *LoanApplicationRepo) SaveResolved(_ context.Context, app *domain.LoanApplication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpLoanSaveResolved); err != nil {
		return err
	}
	r.s.resolvedLoans[memberTxnKey{app.MemberID, app.TxnID}] = copyApplication(*app)
	return nil
}

// GetResolved fetches a resolved application.
func (r *LoanApplicationRepo) GetResolved(_ context.Context, memberID, txnID string) (*domain.LoanApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.resolvedLoans[memberTxnKey{memberID, txnID}]
	if !ok {
		return nil, nil
	}
	c := copyApplication(a)
	return &c, nil
}

// CurrentLoanRepo implements ports.CurrentLoanRepository.
type CurrentLoanRepo struct{ s *Store }

// Get fetches a current loan.
func (r *CurrentLoanRepo) Get(_ context.Context, memberID, txnID string) (*domain.CurrentLoan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.currentLoans[memberTxnKey{memberID, txnID}]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

// ListByMember lists a member's current loans by approval time.
func (r *CurrentLoanRepo) ListByMember(_ context.Context, memberID string) ([]domain.CurrentLoan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.CurrentLoan{}
	for k, l := range r.s.currentLoans {
		if k.memberID == memberID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApprovedAt.Before(out[j].ApprovedAt) })
	return out, nil
}

// Save upserts a current loan.
func (r *CurrentLoanRepo) Save(_ context.Context, loan *domain.CurrentLoan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpCurrentSave); err != nil {
		return err
	}
	r.s.currentLoans[memberTxnKey{loan.MemberID, loan.TxnID}] = *loan
	return nil
}

// Delete removes a current loan. Missing loans are ignored.
func (r *CurrentLoanRepo) Delete(_ context.Context, memberID, txnID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpCurrentDelete); err != nil {
		return err
	}
	delete(r.s.currentLoans, memberTxnKey{memberID, txnID})
	return nil
}

// ApplyRepayment applies alloc to the stored loan once per effect key and
// removes the loan when it closes.
func (r *CurrentLoanRepo) ApplyRepayment(_ context.Context, memberID, txnID, effectKey string, alloc domain.PaymentAllocation, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpCurrentRepay); err != nil {
		return false, err
	}
	if _, done := r.s.effects[effectKey]; done {
		return false, nil
	}
	k := memberTxnKey{memberID, txnID}
	loan, ok := r.s.currentLoans[k]
	if !ok {
		return false, fmt.Errorf("current loan %s/%s not found", memberID, txnID)
	}
	closed, err := loan.ApplyRepayment(alloc, at)
	if err != nil {
		return false, err
	}
	if closed {
		delete(r.s.currentLoans, k)
	} else {
		r.s.currentLoans[k] = loan
	}
	r.s.effects[effectKey] = struct{}{}
	return true, nil
}
