// Package billing prices uncovered rental periods and reconciles stored gap
// amounts. Everything here is pure: no I/O, no shared mutable state.
package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
)

// Rates holds the pricing constants of gap periods.
type Rates struct {
	// CopaymentRate is the patient's statutory share of the equipment price.
	CopaymentRate decimal.Decimal
	// MonthDays is the flat month length used to derive daily rates. It is not
	// calendar accurate and must stay fixed for amounts to remain comparable.
	MonthDays int
}

func DefaultRates() Rates {
	return Rates{
		CopaymentRate: decimal.NewFromFloat(0.20),
		MonthDays:     30,
	}
}

// GapAmount is the priced result for one window.
type GapAmount struct {
	Amount    decimal.Decimal `json:"amount"`
	DailyRate decimal.Decimal `json:"daily_rate"`
	Days      int             `json:"days"`
	Formula   string          `json:"formula"`
}

type GapCalculator struct {
	rates Rates
}

func NewGapCalculator(rates Rates) *GapCalculator {
	if rates.MonthDays <= 0 {
		rates.MonthDays = DefaultRates().MonthDays
	}
	return &GapCalculator{rates: rates}
}

func (c *GapCalculator) Rates() Rates {
	return c.rates
}

// Calculate returns the amount owed for the uncovered window [start, end].
//
// Preconditions, not checked: start <= end and monthlyPrice > 0.
//
// The daily rate is the co-payment share of the equipment daily rate. When the
// rental has bonds, only the first one is consulted and the rate is capped at
// its daily value.
func (c *GapCalculator) Calculate(start, end time.Time, monthlyPrice decimal.Decimal, bonds []domain.CNAMBond) GapAmount {
	days := domain.DaysInclusive(start, end)
	monthDays := decimal.NewFromInt(int64(c.rates.MonthDays))

	equipmentDaily := monthlyPrice.Div(monthDays)
	copayDaily := equipmentDaily.Mul(c.rates.CopaymentRate)
	share := c.rates.CopaymentRate.Mul(decimal.NewFromInt(100)).String() + "%"

	dailyRate := copayDaily
	var basis string
	if len(bonds) > 0 {
		bond := bonds[0]
		bondDaily := bond.MonthlyAmount.Div(monthDays)
		dailyRate = decimal.Min(copayDaily, bondDaily)
		basis = fmt.Sprintf("min(%s co-payment %s / %d x %s = %s, CNAM bond %s / %d = %s)",
			share,
			monthlyPrice.StringFixed(2), c.rates.MonthDays, c.rates.CopaymentRate.String(), copayDaily.StringFixed(2),
			bond.MonthlyAmount.StringFixed(2), c.rates.MonthDays, bondDaily.StringFixed(2))
	} else {
		basis = fmt.Sprintf("%s co-payment %s / %d x %s",
			share, monthlyPrice.StringFixed(2), c.rates.MonthDays, c.rates.CopaymentRate.String())
	}

	amount := dailyRate.Mul(decimal.NewFromInt(int64(days))).Round(2)

	return GapAmount{
		Amount:    amount,
		DailyRate: dailyRate,
		Days:      days,
		Formula:   fmt.Sprintf("%s = %s/day x %d days = %s", basis, dailyRate.StringFixed(2), days, amount.StringFixed(2)),
	}
}
