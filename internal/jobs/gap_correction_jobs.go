package jobs

import (
	"context"
	"time"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/logger"
)

const sweepTimeout = 30 * time.Minute

// RunGapCorrectionSweep re-prices every gap period. Corrections are only
// persisted when the scheduler is configured with gap_correction_dry_run: false.
func (jr *JobRunner) RunGapCorrectionSweep() {
	jr.sweep("GapCorrectionSweep", jr.config.Scheduler.SweepDryRun())
}

// ReportGapCorrections runs the sweep in dry-run mode whatever the configuration.
func (jr *JobRunner) ReportGapCorrections() {
	jr.sweep("GapCorrectionReport", true)
}

func (jr *JobRunner) sweep(jobName string, dryRun bool) {
	jr.runWithRecovery(jobName, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		summary, err := jr.services.GapCorrection.SweepAll(ctx, dryRun)
		if err != nil {
			logger.Error("Gap correction sweep failed", "job", jobName, "error", err)
			return
		}
		if summary.RentalsFailed > 0 {
			logger.Warn("Some rentals could not be corrected",
				"job", jobName,
				"runID", summary.RunID,
				"failed", summary.RentalsFailed)
		}
		logger.Info("Gap correction sweep summary",
			"job", jobName,
			"runID", summary.RunID,
			"dryRun", summary.DryRun,
			"scanned", summary.RentalsScanned,
			"corrected", summary.RentalsCorrected,
			"corrections", summary.Corrections,
			"savings", summary.TotalSavings.StringFixed(2))
	})
}
