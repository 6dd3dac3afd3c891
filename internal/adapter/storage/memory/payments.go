package memory

import (
	"context"
	"sort"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
)

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct{ s *Store }

// CreatePending inserts p unless the member already used its txn id.
func (r *PaymentRepo) CreatePending(_ context.Context, p *domain.PaymentRequest) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := memberTxnKey{p.MemberID, p.TxnID}
	if _, ok := r.s.pendingPays[k]; ok {
		return false, nil
	}
	if _, ok := r.s.resolvedPays[k]; ok {
		return false, nil
	}
	r.s.pendingPays[k] = copyPayment(*p)
	return true, nil
}

func (r *PaymentRepo) GetPending(_ context.Context, memberID, txnID string) (*domain.PaymentRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.pendingPays[memberTxnKey{memberID, txnID}]
	if !ok {
		return nil, nil
	}
	c := copyPayment(p)
	return &c, nil
}

func (r *PaymentRepo) ListPending(_ context.Context, params ports.ListParams) ([]domain.PaymentRequest, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]domain.PaymentRequest, 0, len(r.s.pendingPays))
	for _, p := range r.s.pendingPays {
		all = append(all, copyPayment(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SubmittedAt.Before(all[j].SubmittedAt) })
	return page(all, params.Offset(), params.PageSize), int64(len(all)), nil
}

func (r *PaymentRepo) DeletePending(_ context.Context, memberID, txnID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpPaymentDelete); err != nil {
		return err
	}
	delete(r.s.pendingPays, memberTxnKey{memberID, txnID})
	return nil
}

func (r *PaymentRepo) SaveResolved(_ context.Context, p *domain.PaymentRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpPaymentSaveResolve); err != nil {
		return err
	}
	r.s.resolvedPays[memberTxnKey{p.MemberID, p.TxnID}] = copyPayment(*p)
	return nil
}

func (r *PaymentRepo) GetResolved(_ context.Context, memberID, txnID string) (*domain.PaymentRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.resolvedPays[memberTxnKey{memberID, txnID}]
	if !ok {
		return nil, nil
	}
	c := copyPayment(p)
	return &c, nil
}

// SavingsRepo implements ports.SavingsRepository.
type SavingsRepo struct{ s *Store }

func (r *SavingsRepo) CreatePending(_ context.Context, req *domain.SavingsRequest) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := savingsKey{req.Kind, req.MemberID, req.TxnID}
	if _, ok := r.s.pendingSavings[k]; ok {
		return false, nil
	}
	if _, ok := r.s.resolvedSaving[k]; ok {
		return false, nil
	}
	r.s.pendingSavings[k] = copySavings(*req)
	return true, nil
}

func (r *SavingsRepo) GetPending(_ context.Context, kind domain.SavingsKind, memberID, txnID string) (*domain.SavingsRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.pendingSavings[savingsKey{kind, memberID, txnID}]
	if !ok {
		return nil, nil
	}
	c := copySavings(req)
	return &c, nil
}

func (r *SavingsRepo) ListPending(_ context.Context, kind domain.SavingsKind, params ports.ListParams) ([]domain.SavingsRequest, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := []domain.SavingsRequest{}
	for k, req := range r.s.pendingSavings {
		if k.kind == kind {
			all = append(all, copySavings(req))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SubmittedAt.Before(all[j].SubmittedAt) })
	return page(all, params.Offset(), params.PageSize), int64(len(all)), nil
}

func (r *SavingsRepo) DeletePending(_ context.Context, kind domain.SavingsKind, memberID, txnID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpSavingsDelete); err != nil {
		return err
	}
	delete(r.s.pendingSavings, savingsKey{kind, memberID, txnID})
	return nil
}

func (r *SavingsRepo) SaveResolved(_ context.Context, req *domain.SavingsRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpSavingsSaveResolve); err != nil {
		return err
	}
	r.s.resolvedSaving[savingsKey{req.Kind, req.MemberID, req.TxnID}] = copySavings(*req)
	return nil
}
