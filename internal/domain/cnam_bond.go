package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CNAMBondStatus string

const (
	CNAMBondStatusSubmitted CNAMBondStatus = "SUBMITTED"
	CNAMBondStatusApproved  CNAMBondStatus = "APPROVED"
	CNAMBondStatusActive    CNAMBondStatus = "ACTIVE"
	CNAMBondStatusExpired   CNAMBondStatus = "EXPIRED"
)

// CNAMBond is an insurance coverage grant attached to a rental. Its window is
// not assumed to match the rental's own window.
type CNAMBond struct {
	ID            int32           `json:"id"`
	RentalID      int32           `json:"rental_id"`
	PatientID     int32           `json:"patient_id"`
	BondNumber    string          `json:"bond_number"`
	DossierNumber string          `json:"dossier_number"`
	BondType      string          `json:"bond_type"`
	Status        CNAMBondStatus  `json:"status"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CoveredMonths int32           `json:"covered_months"`
	StartDate     *time.Time      `json:"start_date,omitempty"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
