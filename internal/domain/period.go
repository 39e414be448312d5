package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCNAM         PaymentMethod = "CNAM"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodTraite       PaymentMethod = "TRAITE"
	PaymentMethodMandat       PaymentMethod = "MANDAT"
)

// GapReason explains why a period is not covered by insurance.
type GapReason string

const (
	GapReasonCNAMPending     GapReason = "CNAM_PENDING"
	GapReasonCNAMExpired     GapReason = "CNAM_EXPIRED"
	GapReasonBondUnderCover  GapReason = "BOND_UNDER_COVERAGE"
	GapReasonRentalExtension GapReason = "RENTAL_EXTENSION"
	GapReasonOther           GapReason = "OTHER"
)

// Priority maps a gap reason to the priority of its payment-due notification.
// CNAM delays and expiries need follow-up with the insurer, everything else
// is a routine co-payment.
func (r GapReason) Priority() NotificationPriority {
	switch r {
	case GapReasonCNAMPending, GapReasonCNAMExpired:
		return NotificationPriorityHigh
	default:
		return NotificationPriorityMedium
	}
}

// RentalPeriod is a contiguous, inclusive sub-interval of a rental's billing timeline.
type RentalPeriod struct {
	ID            int32           `json:"id"`
	RentalID      int32           `json:"rental_id"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	IsGapPeriod   bool            `json:"is_gap_period"`
	GapReason     GapReason       `json:"gap_reason,omitempty"`
	CNAMBondID    *int32          `json:"cnam_bond_id,omitempty"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p RentalPeriod) Days() int {
	return DaysInclusive(p.StartDate, p.EndDate)
}

// GapMarker flags a period definition as uncovered. A nil marker means the
// period is covered (paid or insured).
type GapMarker struct {
	Reason GapReason `json:"reason,omitempty"`
}

// PeriodDefinition is one entry of a caller-supplied generation batch. Dates
// and amount are pointers so that a missing value can be told apart from a
// zero value.
type PeriodDefinition struct {
	StartDate     *time.Time
	EndDate       *time.Time
	Amount        *decimal.Decimal
	PaymentMethod PaymentMethod
	Gap           *GapMarker
	CNAMBondID    *int32
	Notes         string
}

// Validate checks the definition found at the 1-based position index of its batch.
func (d PeriodDefinition) Validate(index int) error {
	switch {
	case d.StartDate == nil:
		return &InvalidPeriodError{Index: index, Reason: "missing start date"}
	case d.EndDate == nil:
		return &InvalidPeriodError{Index: index, Reason: "missing end date"}
	case d.Amount == nil:
		return &InvalidPeriodError{Index: index, Reason: "missing amount"}
	case Day(*d.EndDate).Before(Day(*d.StartDate)):
		return &InvalidPeriodError{Index: index, Reason: "end date before start date"}
	case d.Amount.IsNegative():
		return &InvalidPeriodError{Index: index, Reason: "negative amount"}
	case !d.Amount.Equal(d.Amount.Round(2)):
		// Amounts are stored as NUMERIC(12,2); the batch total must add up to the stored rows.
		return &InvalidPeriodError{Index: index, Reason: "amount has more than 2 decimals"}
	}
	return nil
}

func (d PeriodDefinition) IsGap() bool {
	return d.Gap != nil
}

// ToPeriod builds the record to persist. Validate must have passed.
func (d PeriodDefinition) ToPeriod(rentalID int32) RentalPeriod {
	p := RentalPeriod{
		RentalID:      rentalID,
		StartDate:     Day(*d.StartDate),
		EndDate:       Day(*d.EndDate),
		Amount:        *d.Amount,
		PaymentMethod: d.PaymentMethod,
		CNAMBondID:    d.CNAMBondID,
		Notes:         d.Notes,
	}
	if d.Gap != nil {
		p.IsGapPeriod = true
		p.GapReason = d.Gap.Reason
	}
	return p
}
