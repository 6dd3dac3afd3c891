package service

import (
	"context"
	"errors"
	"testing"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports/mocks"
	"loan-ledger/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSettingsService_Current(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockSettingsRepository(ctrl)
	svc := NewSettingsService(repo, mocks.NewMockAuditService(ctrl), newTestLogger())

	repo.EXPECT().Get(gomock.Any()).Return(&domain.LoanSettings{Rates: domain.RateTable{}}, nil)
	s, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.Version)
	assert.Empty(t, s.LoanTypes())

	repo.EXPECT().Get(gomock.Any()).Return(nil, errors.New("timeout"))
	_, err = svc.Current(context.Background())
	assert.True(t, apperror.HasCode(err, apperror.CodeInternal))
}

func TestSettingsService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockSettingsRepository(ctrl)
	audit := mocks.NewMockAuditService(ctrl)
	svc := NewSettingsService(repo, audit, newTestLogger())

	next := domain.LoanSettings{
		Rates:              domain.RateTable{"Regular": {6: d("3")}},
		ProcessingFee:      d("150"),
		LoanablePercentage: d("80"),
	}

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, s *domain.LoanSettings) (*domain.LoanSettings, error) {
			assert.Equal(t, "S-1", s.UpdatedBy)
			assert.False(t, s.UpdatedAt.IsZero())
			saved := *s
			saved.Version = 4
			return &saved, nil
		})
	audit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(func(_ context.Context, entry *domain.AuditLog) {
		assert.Equal(t, domain.AuditActionUpdateSettings, entry.Action)
		assert.Equal(t, "4", entry.ResourceID)
	})

	saved, err := svc.Update(context.Background(), staff, next)
	require.NoError(t, err)
	assert.EqualValues(t, 4, saved.Version)
}

func TestSettingsService_Update_Rejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewSettingsService(mocks.NewMockSettingsRepository(ctrl), mocks.NewMockAuditService(ctrl), newTestLogger())
	member := domain.MemberContext{MemberID: "M-1", Role: domain.RoleMember}

	_, err := svc.Update(context.Background(), member, domain.LoanSettings{})
	assert.True(t, apperror.HasCode(err, apperror.CodeForbidden))

	tests := []struct {
		name     string
		settings domain.LoanSettings
	}{
		{"negative fee", domain.LoanSettings{ProcessingFee: d("-1")}},
		{"percentage over 100", domain.LoanSettings{LoanablePercentage: d("120")}},
		{"zero term", domain.LoanSettings{Rates: domain.RateTable{"Regular": {0: d("3")}}}},
		{"negative rate", domain.LoanSettings{Rates: domain.RateTable{"Regular": {6: d("-3")}}}},
		{"blank type", domain.LoanSettings{Rates: domain.RateTable{"": {6: d("3")}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), staff, tt.settings)
			assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
		})
	}
}
