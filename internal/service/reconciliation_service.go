package service

import (
	"context"
	"errors"
	"fmt"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
	"loan-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// ReconciliationServiceImpl implements ports.ReconciliationService.
type ReconciliationServiceImpl struct {
	markers     ports.ResolutionRepository
	coordinator ports.LedgerCoordinator
	audit       ports.AuditService
	defaultSize int
	log         zerolog.Logger
}

// NewReconciliationService creates a reconciliation service. batch is used
// when a caller passes a non-positive limit.
func NewReconciliationService(
	markers ports.ResolutionRepository,
	coordinator ports.LedgerCoordinator,
	audit ports.AuditService,
	batch int,
	log zerolog.Logger,
) *ReconciliationServiceImpl {
	return &ReconciliationServiceImpl{
		markers:     markers,
		coordinator: coordinator,
		audit:       audit,
		defaultSize: batch,
		log:         log,
	}
}

func (s *ReconciliationServiceImpl) limit(n int) int {
	if n <= 0 {
		return s.defaultSize
	}
	return n
}

// ListIncomplete returns markers that stopped before completion, oldest first.
func (s *ReconciliationServiceImpl) ListIncomplete(ctx context.Context, limit int) ([]domain.Resolution, error) {
	markers, err := s.markers.ListIncomplete(ctx, s.limit(limit))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list incomplete resolutions: %w", err))
	}
	return markers, nil
}

// Run resumes each incomplete resolution once. A failure is reported and
// the pass moves on to the next marker.
func (s *ReconciliationServiceImpl) Run(ctx context.Context, limit int) (*ports.ReconcileReport, error) {
	markers, err := s.ListIncomplete(ctx, limit)
	if err != nil {
		return nil, err
	}

	report := &ports.ReconcileReport{Scanned: len(markers), Failed: []ports.ReconcileFailure{}}
	for i := range markers {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		r := &markers[i]
		if _, err := s.coordinator.Resume(ctx, r); err != nil {
			report.Failed = append(report.Failed, ports.ReconcileFailure{
				Key:   r.Key(),
				Step:  failedStep(r, err),
				Error: err.Error(),
			})
			s.log.Warn().Err(err).Str("key", r.Key()).Msg("Reconciliation could not complete resolution")
			continue
		}
		report.Completed++
	}

	if report.Scanned > 0 {
		s.audit.Log(ctx, &domain.AuditLog{
			ActorRole:    domain.RoleStaff,
			Action:       domain.AuditActionReconcile,
			ResourceType: "resolution",
			Details:      fmt.Sprintf(`{"scanned":%d,"completed":%d,"failed":%d}`, report.Scanned, report.Completed, len(report.Failed)),
		})
	}

	s.log.Info().
		Int("scanned", report.Scanned).
		Int("completed", report.Completed).
		Int("failed", len(report.Failed)).
		Msg("Reconciliation pass finished")
	return report, nil
}

// failedStep names the step a resume stopped at. Errors raised before any
// write fall back to the first step that was still outstanding.
func failedStep(r *domain.Resolution, err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Code == apperror.CodeStorageFailure {
		return appErr.Message
	}
	if remaining := r.RemainingSteps(); len(remaining) > 0 {
		return remaining[0].String()
	}
	return ""
}
