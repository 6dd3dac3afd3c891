package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
	"loan-ledger/pkg/apperror"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SettingsServiceImpl implements ports.SettingsService.
type SettingsServiceImpl struct {
	repo  ports.SettingsRepository
	audit ports.AuditService
	log   zerolog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(repo ports.SettingsRepository, audit ports.AuditService, log zerolog.Logger) *SettingsServiceImpl {
	return &SettingsServiceImpl{repo: repo, audit: audit, log: log}
}

// Current returns the latest snapshot. An unconfigured ledger yields an
// empty snapshot with version 0.
func (s *SettingsServiceImpl) Current(ctx context.Context) (*domain.LoanSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load settings: %w", err))
	}
	return settings, nil
}

// Update stores next as a new version. Only staff may change rates.
func (s *SettingsServiceImpl) Update(ctx context.Context, staff domain.MemberContext, next domain.LoanSettings) (*domain.LoanSettings, error) {
	if !staff.IsStaff() {
		return nil, apperror.ErrForbidden()
	}
	if err := validateSettings(next); err != nil {
		return nil, err
	}

	next.UpdatedBy = staff.MemberID
	next.UpdatedAt = time.Now().UTC()
	saved, err := s.repo.Save(ctx, &next)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save settings: %w", err))
	}

	details, _ := json.Marshal(map[string]any{"version": saved.Version, "loan_types": saved.LoanTypes()})
	s.audit.Log(ctx, &domain.AuditLog{
		ActorID:      staff.MemberID,
		ActorRole:    staff.Role,
		Action:       domain.AuditActionUpdateSettings,
		ResourceType: "loan_settings",
		ResourceID:   fmt.Sprintf("%d", saved.Version),
		Details:      string(details),
	})

	s.log.Info().Int64("version", saved.Version).Str("staff_id", staff.MemberID).Msg("Loan settings updated")
	return saved, nil
}

func validateSettings(s domain.LoanSettings) error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.ProcessingFee, validation.By(nonNegative)),
		validation.Field(&s.LoanablePercentage, validation.By(percent)),
	)
	if err != nil {
		return apperror.Validation(err.Error())
	}
	for loanType, terms := range s.Rates {
		if loanType == "" {
			return apperror.Validation("loan type name must not be empty")
		}
		for term, rate := range terms {
			if term <= 0 {
				return apperror.Validation(fmt.Sprintf("%s: term must be a positive number of months", loanType))
			}
			if rate.IsNegative() {
				return apperror.Validation(fmt.Sprintf("%s/%d: rate must not be negative", loanType, term))
			}
		}
	}
	return nil
}

func nonNegative(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if d.IsNegative() {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func percent(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if d.IsNegative() || d.GreaterThan(hundred) {
		return fmt.Errorf("must be between 0 and 100")
	}
	return nil
}
