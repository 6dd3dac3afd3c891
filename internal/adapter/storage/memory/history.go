package memory

import (
	"context"
	"sort"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
)

// TransactionLogRepo implements ports.TransactionLogRepository.
type TransactionLogRepo struct{ s *Store }

// Upsert replaces the entry for (type, member, txn id), keeping CreatedAt.
func (r *TransactionLogRepo) Upsert(_ context.Context, e *domain.TransactionLogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpLogUpsert); err != nil {
		return err
	}
	k := logKey{e.Type, e.MemberID, e.TxnID}
	entry := *e
	if prev, ok := r.s.logs[k]; ok && !prev.CreatedAt.IsZero() {
		entry.CreatedAt = prev.CreatedAt
	}
	r.s.logs[k] = entry
	return nil
}

// List returns a member's entries newest first.
func (r *TransactionLogRepo) List(_ context.Context, params ports.TransactionLogListParams) ([]domain.TransactionLogEntry, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := []domain.TransactionLogEntry{}
	for k, e := range r.s.logs {
		if k.memberID != params.MemberID {
			continue
		}
		if params.Type != nil && k.typ != *params.Type {
			continue
		}
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].TxnID > all[j].TxnID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return page(all, params.Offset(), params.PageSize), int64(len(all)), nil
}

// ResolutionRepo implements ports.ResolutionRepository.
type ResolutionRepo struct{ s *Store }

func (r *ResolutionRepo) Get(_ context.Context, kind domain.RequestKind, memberID, txnID string) (*domain.Resolution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.resolutions[domain.ResolutionKey(kind, memberID, txnID)]
	if !ok {
		return nil, nil
	}
	c := copyResolution(res)
	return &c, nil
}

func (r *ResolutionRepo) Create(_ context.Context, res *domain.Resolution) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.resolutions[res.Key()]; ok {
		return false, nil
	}
	r.s.resolutions[res.Key()] = copyResolution(*res)
	return true, nil
}

func (r *ResolutionRepo) Save(_ context.Context, res *domain.Resolution) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpResolutionSave); err != nil {
		return err
	}
	r.s.resolutions[res.Key()] = copyResolution(*res)
	return nil
}

func (r *ResolutionRepo) ListIncomplete(_ context.Context, limit int) ([]domain.Resolution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Resolution{}
	for _, res := range r.s.resolutions {
		if !res.IsComplete() {
			out = append(out, copyResolution(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ResolutionRepo) ListIncompleteForLoan(_ context.Context, memberID, loanTxnID string) ([]domain.Resolution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Resolution{}
	for _, res := range r.s.resolutions {
		if res.MemberID == memberID && !res.IsComplete() && res.LoanTxnID() == loanTxnID {
			out = append(out, copyResolution(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct{ s *Store }

func (r *AuditRepo) Create(_ context.Context, log *domain.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audits = append(r.s.audits, *log)
	return nil
}

// Entries returns a copy of every stored audit entry.
func (r *AuditRepo) Entries() []domain.AuditLog {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.AuditLog, len(r.s.audits))
	copy(out, r.s.audits)
	return out
}
