package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Correction describes one gap period whose stored amount drifted from the
// recomputed amount. It is never persisted.
type Correction struct {
	PeriodID          int32           `json:"period_id"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	OldAmount         decimal.Decimal `json:"old_amount"`
	NewAmount         decimal.Decimal `json:"new_amount"`
	Difference        decimal.Decimal `json:"difference"`         // new - old
	PercentDifference decimal.Decimal `json:"percent_difference"` // |new - old| / new, in percent
	Days              int             `json:"days"`
	DailyRate         decimal.Decimal `json:"daily_rate"`
	Explanation       string          `json:"explanation"`
}
