package billing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
)

// NoCorrectionMessage is the whole report when nothing needed correcting.
const NoCorrectionMessage = "No gap period correction needed."

type ReportFormatter struct {
	currency string
}

func NewReportFormatter(currency string) *ReportFormatter {
	return &ReportFormatter{currency: currency}
}

// Format renders corrections as a deterministic multi-line report.
func (f *ReportFormatter) Format(corrections []domain.Correction) string {
	if len(corrections) == 0 {
		return NoCorrectionMessage
	}

	totalOld, totalNew := decimal.Zero, decimal.Zero
	for _, c := range corrections {
		totalOld = totalOld.Add(c.OldAmount)
		totalNew = totalNew.Add(c.NewAmount)
	}

	var b strings.Builder
	b.WriteString("GAP PERIOD CORRECTION REPORT\n")
	b.WriteString("============================\n")
	fmt.Fprintf(&b, "Corrected periods: %d\n", len(corrections))
	fmt.Fprintf(&b, "Total old amount: %s\n", f.money(totalOld))
	fmt.Fprintf(&b, "Total new amount: %s\n", f.money(totalNew))
	fmt.Fprintf(&b, "Total savings: %s\n", f.money(totalOld.Sub(totalNew)))

	for i, c := range corrections {
		b.WriteString("\n")
		fmt.Fprintf(&b, "[%d] Period #%d: %s -> %s (%d days)\n",
			i+1, c.PeriodID, domain.FormatDate(c.StartDate), domain.FormatDate(c.EndDate), c.Days)
		fmt.Fprintf(&b, "    Old amount: %s\n", f.money(c.OldAmount))
		fmt.Fprintf(&b, "    New amount: %s\n", f.money(c.NewAmount))
		fmt.Fprintf(&b, "    Difference: %s (%s%%)\n", f.money(c.Difference), c.PercentDifference.StringFixed(2))
		fmt.Fprintf(&b, "    Calculation: %s\n", c.Explanation)
	}

	return b.String()
}

func (f *ReportFormatter) money(d decimal.Decimal) string {
	if f.currency == "" {
		return d.StringFixed(2)
	}
	return d.StringFixed(2) + " " + f.currency
}
