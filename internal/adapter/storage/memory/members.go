package memory

import (
	"context"
	"fmt"
	"time"

	"loan-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// MemberRepo implements ports.MemberRepository.
type MemberRepo struct{ s *Store }

// Create inserts or replaces a member.
func (r *MemberRepo) Create(_ context.Context, m *domain.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.members[m.ID] = copyMember(*m)
	return nil
}

// GetByID fetches a member.
func (r *MemberRepo) GetByID(_ context.Context, id string) (*domain.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[id]
	if !ok {
		return nil, nil
	}
	c := copyMember(m)
	return &c, nil
}

// AdjustBalance adds delta once per effect key.
func (r *MemberRepo) AdjustBalance(_ context.Context, memberID, effectKey string, delta decimal.Decimal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpMemberAdjust); err != nil {
		return false, err
	}
	m, ok := r.s.members[memberID]
	if !ok {
		return false, fmt.Errorf("member %s not found", memberID)
	}
	if _, done := r.s.effects[effectKey]; done {
		return false, nil
	}
	m.Balance = m.Balance.Add(delta)
	m.UpdatedAt = time.Now().UTC()
	r.s.members[memberID] = m
	r.s.effects[effectKey] = struct{}{}
	return true, nil
}
