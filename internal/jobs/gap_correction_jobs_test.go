package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/billing"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/config"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/jobs"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/service"
)

type MockGapCorrectionService struct {
	mock.Mock
}

func (m *MockGapCorrectionService) CorrectRental(ctx context.Context, rentalID int32, dryRun bool) (*service.CorrectionRun, error) {
	args := m.Called(ctx, rentalID, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CorrectionRun), args.Error(1)
}
func (m *MockGapCorrectionService) SweepAll(ctx context.Context, dryRun bool) (*service.SweepSummary, error) {
	args := m.Called(ctx, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SweepSummary), args.Error(1)
}
func (m *MockGapCorrectionService) QuoteGap(ctx context.Context, rentalID int32, start, end time.Time) (*billing.GapAmount, error) {
	args := m.Called(ctx, rentalID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.GapAmount), args.Error(1)
}

func newRunner(svc service.GapCorrectionService, dryRun *bool) *jobs.JobRunner {
	cfg := &config.Config{}
	cfg.Scheduler.GapCorrectionDryRun = dryRun
	return jobs.NewJobRunner(&jobs.Services{GapCorrection: svc}, cfg)
}

func TestRunGapCorrectionSweep(t *testing.T) {
	summary := &service.SweepSummary{RunID: "r", RentalsScanned: 2, TotalSavings: decimal.Zero}

	t.Run("Dry run by default", func(t *testing.T) {
		svc := new(MockGapCorrectionService)
		svc.On("SweepAll", mock.Anything, true).Return(summary, nil)

		newRunner(svc, nil).RunGapCorrectionSweep()
		svc.AssertExpectations(t)
	})

	t.Run("Applies when configured", func(t *testing.T) {
		svc := new(MockGapCorrectionService)
		apply := false
		svc.On("SweepAll", mock.Anything, false).Return(summary, nil)

		newRunner(svc, &apply).RunGapCorrectionSweep()
		svc.AssertExpectations(t)
	})

	t.Run("Report always dry", func(t *testing.T) {
		svc := new(MockGapCorrectionService)
		apply := false
		svc.On("SweepAll", mock.Anything, true).Return(summary, nil)

		newRunner(svc, &apply).ReportGapCorrections()
		svc.AssertExpectations(t)
	})

	t.Run("Error is logged", func(t *testing.T) {
		svc := new(MockGapCorrectionService)
		svc.On("SweepAll", mock.Anything, true).Return(nil, assert.AnError)

		assert.NotPanics(t, func() { newRunner(svc, nil).RunGapCorrectionSweep() })
	})

	t.Run("Panic is recovered", func(t *testing.T) {
		svc := new(MockGapCorrectionService)
		svc.On("SweepAll", mock.Anything, true).Run(func(mock.Arguments) { panic("boom") })

		assert.NotPanics(t, func() { newRunner(svc, nil).RunGapCorrectionSweep() })
	})
}
