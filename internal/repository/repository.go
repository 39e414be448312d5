package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
)

type RentalRepository interface {
	// GetByID returns the rental with its device loaded.
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	// ListIDsWithGapPeriods returns ids of rentals owning at least one gap period.
	ListIDsWithGapPeriods(ctx context.Context) ([]int32, error)
}

type CNAMBondRepository interface {
	// ListByRental returns bonds ordered by start date, then id.
	ListByRental(ctx context.Context, rentalID int32) ([]domain.CNAMBond, error)
}

type PeriodRepository interface {
	Create(ctx context.Context, period *domain.RentalPeriod) error
	// ListByRental returns periods ordered by start date, then id.
	ListByRental(ctx context.Context, rentalID int32) ([]domain.RentalPeriod, error)
	UpdateAmount(ctx context.Context, id int32, amount decimal.Decimal) error
}

type ConfigurationRepository interface {
	// GetForUpdate locks and returns the configuration row of a rental,
	// creating it with a zero total when missing. Only meaningful inside a
	// transaction.
	GetForUpdate(ctx context.Context, rentalID int32) (*domain.RentalConfiguration, error)
	UpdateTotals(ctx context.Context, cfg *domain.RentalConfiguration) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
}

// Repositories is a set of repositories bound to the same connection or transaction.
type Repositories struct {
	Rentals        RentalRepository
	Bonds          CNAMBondRepository
	Periods        PeriodRepository
	Configurations ConfigurationRepository
	Notifications  NotificationRepository
}

// Transactor runs fn inside one database transaction. The transaction commits
// when fn returns nil and rolls back otherwise; fn's error is returned as is.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
