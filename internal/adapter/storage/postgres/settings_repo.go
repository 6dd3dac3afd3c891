package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"loan-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// SettingsRepo implements ports.SettingsRepository. Each save appends a new
// version row; the highest version is current.
type SettingsRepo struct {
	pool Pool
}

// NewSettingsRepo creates a new SettingsRepo.
func NewSettingsRepo(pool Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

const settingsColumns = `version, rates, processing_fee::text, loanable_percentage::text, updated_by, updated_at`

// Get returns the latest snapshot, or an empty one when none is stored.
func (r *SettingsRepo) Get(ctx context.Context) (*domain.LoanSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM loan_settings ORDER BY version DESC LIMIT 1`

	s, err := scanSettings(r.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.LoanSettings{Rates: domain.RateTable{}}, nil
		}
		return nil, fmt.Errorf("get loan settings: %w", err)
	}
	return s, nil
}

// Save inserts s as the next version.
func (r *SettingsRepo) Save(ctx context.Context, s *domain.LoanSettings) (*domain.LoanSettings, error) {
	rates, err := json.Marshal(s.Rates)
	if err != nil {
		return nil, fmt.Errorf("marshal rates: %w", err)
	}

	query := `INSERT INTO loan_settings (version, rates, processing_fee, loanable_percentage, updated_by, updated_at)
		SELECT COALESCE(MAX(version), 0) + 1, $1, $2::numeric, $3::numeric, $4, NOW() FROM loan_settings
		RETURNING ` + settingsColumns

	saved, err := scanSettings(r.pool.QueryRow(ctx, query,
		rates, money(s.ProcessingFee), s.LoanablePercentage.String(), s.UpdatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("save loan settings: %w", err)
	}
	return saved, nil
}

func scanSettings(row pgx.Row) (*domain.LoanSettings, error) {
	s := &domain.LoanSettings{}
	var rates []byte
	var fee, pct string
	if err := row.Scan(&s.Version, &rates, &fee, &pct, &s.UpdatedBy, &s.UpdatedAt); err != nil {
		return nil, err
	}
	var n numDecoder
	n.dec(&s.ProcessingFee, fee)
	n.dec(&s.LoanablePercentage, pct)
	if n.err != nil {
		return nil, n.err
	}
	s.Rates = domain.RateTable{}
	if len(rates) > 0 {
		if err := json.Unmarshal(rates, &s.Rates); err != nil {
			return nil, fmt.Errorf("decode rates: %w", err)
		}
	}
	return s, nil
}
