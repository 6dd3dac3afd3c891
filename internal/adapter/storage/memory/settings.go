package memory

import (
	"context"
	"time"

	"loan-ledger/internal/core/domain"
)

// SettingsRepo implements ports.SettingsRepository.
type SettingsRepo struct{ s *Store }

// Get returns the current snapshot, or an empty one.
func (r *SettingsRepo) Get(_ context.Context) (*domain.LoanSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.settings == nil {
		return &domain.LoanSettings{Rates: domain.RateTable{}}, nil
	}
	c := copySettings(*r.s.settings)
	return &c, nil
}

// Save stores s as the next version.
func (r *SettingsRepo) Save(_ context.Context, s *domain.LoanSettings) (*domain.LoanSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	next := copySettings(*s)
	next.Version = 1
	if r.s.settings != nil {
		next.Version = r.s.settings.Version + 1
	}
	if next.UpdatedAt.IsZero() {
		next.UpdatedAt = time.Now().UTC()
	}
	r.s.settings = &next
	out := copySettings(next)
	return &out, nil
}
