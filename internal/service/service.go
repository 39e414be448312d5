package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/billing"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
)

type PeriodService interface {
	// GeneratePeriods persists a batch of period definitions for one rental,
	// adds the batch total to the rental configuration and raises one
	// payment-due notification per gap period, all in one transaction.
	GeneratePeriods(ctx context.Context, userID, rentalID int32, defs []domain.PeriodDefinition) ([]domain.RentalPeriod, error)
	ListPeriods(ctx context.Context, rentalID int32) ([]domain.RentalPeriod, error)
}

type GapCorrectionService interface {
	CorrectRental(ctx context.Context, rentalID int32, dryRun bool) (*CorrectionRun, error)
	SweepAll(ctx context.Context, dryRun bool) (*SweepSummary, error)
	QuoteGap(ctx context.Context, rentalID int32, start, end time.Time) (*billing.GapAmount, error)
}

// CorrectionRun is the outcome of one gap correction pass over a rental.
type CorrectionRun struct {
	RunID       string                `json:"run_id"`
	RentalID    int32                 `json:"rental_id"`
	DryRun      bool                  `json:"dry_run"`
	Applied     bool                  `json:"applied"`
	Periods     []domain.RentalPeriod `json:"periods"`
	Corrections []domain.Correction   `json:"corrections"`
	Report      string                `json:"report"`
}

// Savings is the sum of (old - new) over the run's corrections.
func (r *CorrectionRun) Savings() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Corrections {
		total = total.Sub(c.Difference)
	}
	return total
}

type SweepSummary struct {
	RunID            string          `json:"run_id"`
	DryRun           bool            `json:"dry_run"`
	RentalsScanned   int             `json:"rentals_scanned"`
	RentalsCorrected int             `json:"rentals_corrected"`
	RentalsFailed    int             `json:"rentals_failed"`
	Corrections      int             `json:"corrections"`
	TotalSavings     decimal.Decimal `json:"total_savings"`
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
}
