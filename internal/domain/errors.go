package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a rental, or something it references, does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPeriodInput is returned when a generation batch entry is malformed.
	// The whole batch is rejected.
	ErrInvalidPeriodInput = errors.New("invalid period input")

	// ErrInvalidRental is returned when a rental cannot be priced, e.g. its
	// device has no monthly price.
	ErrInvalidRental = errors.New("invalid rental")

	// ErrPersistenceFailure is returned when the storage layer could not read or commit.
	ErrPersistenceFailure = errors.New("persistence failure")
)

type NotFoundError struct {
	Entity string
	ID     int32
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// InvalidPeriodError names the offending entry of a batch (1-based).
type InvalidPeriodError struct {
	Index  int
	Reason string
}

func (e *InvalidPeriodError) Error() string {
	if e.Index <= 0 {
		return fmt.Sprintf("invalid period batch: %s", e.Reason)
	}
	return fmt.Sprintf("period %d invalid: %s", e.Index, e.Reason)
}

func (e *InvalidPeriodError) Unwrap() error {
	return ErrInvalidPeriodInput
}

type InvalidRentalError struct {
	RentalID int32
	Reason   string
}

func (e *InvalidRentalError) Error() string {
	return fmt.Sprintf("rental %d: %s", e.RentalID, e.Reason)
}

func (e *InvalidRentalError) Unwrap() error {
	return ErrInvalidRental
}

// PersistenceError wraps a storage error. Code carries the database error
// code when the driver exposes one.
type PersistenceError struct {
	Op   string
	Code string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s failed (code %s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistenceFailure, e.Err}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError reports whether err was caused by caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriodInput) || errors.Is(err, ErrInvalidRental)
}

func IsPersistenceFailure(err error) bool {
	return errors.Is(err, ErrPersistenceFailure)
}
