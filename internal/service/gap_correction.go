package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/billing"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/logger"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/repository"
)

type gapCorrectionService struct {
	tx        repository.Transactor
	repos     repository.Repositories
	calc      *billing.GapCalculator
	corrector *billing.PeriodCorrector
	formatter *billing.ReportFormatter
}

func NewGapCorrectionService(
	tx repository.Transactor,
	repos repository.Repositories,
	calc *billing.GapCalculator,
	corrector *billing.PeriodCorrector,
	formatter *billing.ReportFormatter,
) GapCorrectionService {
	return &gapCorrectionService{
		tx:        tx,
		repos:     repos,
		calc:      calc,
		corrector: corrector,
		formatter: formatter,
	}
}

func (s *gapCorrectionService) CorrectRental(ctx context.Context, rentalID int32, dryRun bool) (*CorrectionRun, error) {
	return s.correctRental(ctx, uuid.NewString(), rentalID, dryRun)
}

func (s *gapCorrectionService) correctRental(ctx context.Context, runID string, rentalID int32, dryRun bool) (*CorrectionRun, error) {
	logger.EnterMethod("gapCorrectionService.CorrectRental", "runID", runID, "rentalID", rentalID, "dryRun", dryRun)

	run := &CorrectionRun{RunID: runID, RentalID: rentalID, DryRun: dryRun}

	if dryRun {
		result, err := s.evaluate(ctx, s.repos, rentalID)
		if err != nil {
			logger.ExitMethodWithError("gapCorrectionService.CorrectRental", err, "rentalID", rentalID)
			return nil, err
		}
		run.Periods = result.Periods
		run.Corrections = result.Corrections
	} else {
		err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			rental, bonds, err := loadPricing(ctx, repos, rentalID)
			if err != nil {
				return err
			}
			// Periods are read after the lock so the replaced amounts and the
			// total delta are computed against committed state.
			cfg, err := repos.Configurations.GetForUpdate(ctx, rentalID)
			if err != nil {
				return err
			}
			periods, err := repos.Periods.ListByRental(ctx, rentalID)
			if err != nil {
				return err
			}
			result := s.corrector.Correct(periods, rental.Device.MonthlyPrice, bonds)
			run.Periods = result.Periods
			run.Corrections = result.Corrections
			if len(result.Corrections) == 0 {
				return nil
			}

			delta := decimal.Zero
			for _, c := range result.Corrections {
				if err := repos.Periods.UpdateAmount(ctx, c.PeriodID, c.NewAmount); err != nil {
					return err
				}
				delta = delta.Add(c.Difference)
			}
			cfg.TotalPaymentAmount = cfg.TotalPaymentAmount.Add(delta)
			if err := repos.Configurations.UpdateTotals(ctx, cfg); err != nil {
				return err
			}
			run.Applied = true
			return nil
		})
		if err != nil {
			logger.ExitMethodWithError("gapCorrectionService.CorrectRental", err, "rentalID", rentalID)
			return nil, err
		}
	}

	run.Report = s.formatter.Format(run.Corrections)

	if len(run.Corrections) > 0 {
		logger.WithRun(runID).Info("Gap period corrections found",
			"rentalID", rentalID,
			"corrections", len(run.Corrections),
			"savings", run.Savings().StringFixed(2),
			"applied", run.Applied,
		)
	}
	logger.ExitMethod("gapCorrectionService.CorrectRental", "rentalID", rentalID, "corrections", len(run.Corrections))
	return run, nil
}

// evaluate loads one rental's pricing inputs through repos and runs the corrector.
func (s *gapCorrectionService) evaluate(ctx context.Context, repos repository.Repositories, rentalID int32) (billing.CorrectionResult, error) {
	rental, bonds, err := loadPricing(ctx, repos, rentalID)
	if err != nil {
		return billing.CorrectionResult{}, err
	}
	periods, err := repos.Periods.ListByRental(ctx, rentalID)
	if err != nil {
		return billing.CorrectionResult{}, err
	}
	return s.corrector.Correct(periods, rental.Device.MonthlyPrice, bonds), nil
}

func (s *gapCorrectionService) SweepAll(ctx context.Context, dryRun bool) (*SweepSummary, error) {
	summary := &SweepSummary{RunID: uuid.NewString(), DryRun: dryRun, TotalSavings: decimal.Zero}
	log := logger.WithRun(summary.RunID)
	log.Info("Starting gap correction sweep", "dryRun", dryRun)

	ids, err := s.repos.Rentals.ListIDsWithGapPeriods(ctx)
	if err != nil {
		log.Error("Failed to list rentals with gap periods", "error", err)
		return nil, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			log.Warn("Gap correction sweep interrupted", "scanned", summary.RentalsScanned, "error", err)
			return summary, err
		}
		summary.RentalsScanned++

		run, err := s.correctRental(ctx, summary.RunID, id, dryRun)
		if err != nil {
			summary.RentalsFailed++
			log.Error("Gap correction failed", "rentalID", id, "error", err)
			continue
		}
		if len(run.Corrections) == 0 {
			continue
		}
		summary.RentalsCorrected++
		summary.Corrections += len(run.Corrections)
		summary.TotalSavings = summary.TotalSavings.Add(run.Savings())
	}

	log.Info("Gap correction sweep finished",
		"dryRun", dryRun,
		"scanned", summary.RentalsScanned,
		"corrected", summary.RentalsCorrected,
		"failed", summary.RentalsFailed,
		"corrections", summary.Corrections,
		"savings", summary.TotalSavings.StringFixed(2),
	)
	return summary, nil
}

func (s *gapCorrectionService) QuoteGap(ctx context.Context, rentalID int32, start, end time.Time) (*billing.GapAmount, error) {
	start, end = domain.Day(start), domain.Day(end)
	if end.Before(start) {
		return nil, &domain.InvalidPeriodError{Reason: "end date before start date"}
	}
	rental, bonds, err := loadPricing(ctx, s.repos, rentalID)
	if err != nil {
		return nil, err
	}
	quote := s.calc.Calculate(start, end, rental.Device.MonthlyPrice, bonds)
	return &quote, nil
}

// loadPricing fetches a rental and its bonds and checks the rental can be
// priced at all.
func loadPricing(ctx context.Context, repos repository.Repositories, rentalID int32) (*domain.Rental, []domain.CNAMBond, error) {
	rental, err := repos.Rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, nil, err
	}
	if !rental.Device.MonthlyPrice.IsPositive() {
		return nil, nil, &domain.InvalidRentalError{RentalID: rentalID, Reason: "device has no monthly price"}
	}
	bonds, err := repos.Bonds.ListByRental(ctx, rentalID)
	if err != nil {
		return nil, nil, err
	}
	return rental, bonds, nil
}
