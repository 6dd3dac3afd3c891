package memory

import (
	"context"

	"github.com/shopspring/decimal"
)

// FundsRepo implements ports.FundsRepository.
type FundsRepo struct{ s *Store }

// Get returns the current pool value.
func (r *FundsRepo) Get(_ context.Context) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.funds, nil
}

// Adjust adds delta once per effect key.
func (r *FundsRepo) Adjust(_ context.Context, effectKey string, delta decimal.Decimal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpFundsAdjust); err != nil {
		return false, err
	}
	if _, done := r.s.effects[effectKey]; done {
		return false, nil
	}
	r.s.funds = r.s.funds.Add(delta)
	r.s.effects[effectKey] = struct{}{}
	return true, nil
}

// Seed sets the pool to an absolute value.
func (r *FundsRepo) Seed(v decimal.Decimal) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.funds = v
}
