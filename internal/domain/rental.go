package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "PENDING"
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusPaused    RentalStatus = "PAUSED"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

// Device is the medical equipment assigned to a rental. MonthlyPrice is the
// basis of every daily rate the billing engine derives.
type Device struct {
	ID           int32           `json:"id"`
	Name         string          `json:"name"`
	SerialNumber string          `json:"serial_number"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
}

type Rental struct {
	ID         int32        `json:"id"`
	RentalCode string       `json:"rental_code"`
	PatientID  int32        `json:"patient_id"`
	DeviceID   int32        `json:"device_id"`
	Device     Device       `json:"device"`
	Status     RentalStatus `json:"status"`
	StartDate  time.Time    `json:"start_date"`
	EndDate    *time.Time   `json:"end_date,omitempty"`
	Notes      string       `json:"notes"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// RentalConfiguration is the aggregate billing record of a rental.
// TotalPaymentAmount is only ever changed by the period generator (additive)
// and by applied gap corrections (delta of replaced amounts).
type RentalConfiguration struct {
	ID                 int32           `json:"id"`
	RentalID           int32           `json:"rental_id"`
	TotalPaymentAmount decimal.Decimal `json:"total_payment_amount"`
	CNAMEligible       bool            `json:"cnam_eligible"`
	Urgent             bool            `json:"urgent"`
	OpenEnded          bool            `json:"open_ended"`
	DepositAmount      decimal.Decimal `json:"deposit_amount"`
	DepositMethod      PaymentMethod   `json:"deposit_method,omitempty"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
