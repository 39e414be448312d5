package billing

import (
	"github.com/shopspring/decimal"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
)

// DefaultTolerancePercent is the drift, in percent of the recomputed amount,
// that a stored gap amount may show before it is corrected.
var DefaultTolerancePercent = decimal.NewFromInt(10)

var hundred = decimal.NewFromInt(100)

type PeriodCorrector struct {
	calc      *GapCalculator
	tolerance decimal.Decimal
}

func NewPeriodCorrector(calc *GapCalculator, tolerancePercent decimal.Decimal) *PeriodCorrector {
	if tolerancePercent.IsNegative() {
		tolerancePercent = DefaultTolerancePercent
	}
	return &PeriodCorrector{calc: calc, tolerance: tolerancePercent}
}

// CorrectionResult holds the full period list, with corrected amounts
// substituted in place, and one record per corrected period.
type CorrectionResult struct {
	Periods     []domain.RentalPeriod `json:"periods"`
	Corrections []domain.Correction   `json:"corrections"`
}

// Correct recomputes every gap period of one rental and replaces the amounts
// drifting strictly more than the tolerance. Non-gap periods pass through
// unchanged. The input slice is not modified.
func (c *PeriodCorrector) Correct(periods []domain.RentalPeriod, monthlyPrice decimal.Decimal, bonds []domain.CNAMBond) CorrectionResult {
	out := make([]domain.RentalPeriod, len(periods))
	copy(out, periods)
	corrections := []domain.Correction{}

	for i := range out {
		p := &out[i]
		if !p.IsGapPeriod {
			continue
		}

		gap := c.calc.Calculate(p.StartDate, p.EndDate, monthlyPrice, bonds)
		pct := percentDifference(p.Amount, gap.Amount)
		if !pct.GreaterThan(c.tolerance) {
			continue
		}

		corrections = append(corrections, domain.Correction{
			PeriodID:          p.ID,
			StartDate:         p.StartDate,
			EndDate:           p.EndDate,
			OldAmount:         p.Amount,
			NewAmount:         gap.Amount,
			Difference:        gap.Amount.Sub(p.Amount),
			PercentDifference: pct.Round(2),
			Days:              gap.Days,
			DailyRate:         gap.DailyRate.Round(2),
			Explanation:       gap.Formula,
		})
		p.Amount = gap.Amount
	}

	return CorrectionResult{Periods: out, Corrections: corrections}
}

// percentDifference is |stored - correct| relative to correct, in percent.
// A zero correct amount makes any non-zero stored amount a full mismatch.
func percentDifference(stored, correct decimal.Decimal) decimal.Decimal {
	if correct.IsZero() {
		if stored.IsZero() {
			return decimal.Zero
		}
		return hundred
	}
	return stored.Sub(correct).Abs().Div(correct.Abs()).Mul(hundred)
}
