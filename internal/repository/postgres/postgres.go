package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/logger"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/repository"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.RentalRepository
	repository.CNAMBondRepository
	repository.PeriodRepository
	repository.ConfigurationRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	repos := newRepositories(db)
	return &Store{
		db:                      db,
		RentalRepository:        repos.Rentals,
		CNAMBondRepository:      repos.Bonds,
		PeriodRepository:        repos.Periods,
		ConfigurationRepository: repos.Configurations,
		NotificationRepository:  repos.Notifications,
	}
}

func newRepositories(db DBTX) repository.Repositories {
	return repository.Repositories{
		Rentals:        NewRentalRepository(db),
		Bonds:          NewCNAMBondRepository(db),
		Periods:        NewPeriodRepository(db),
		Configurations: NewConfigurationRepository(db),
		Notifications:  NewNotificationRepository(db),
	}
}

// Repositories returns the repositories bound to the connection pool.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Rentals:        s.RentalRepository,
		Bonds:          s.CNAMBondRepository,
		Periods:        s.PeriodRepository,
		Configurations: s.ConfigurationRepository,
		Notifications:  s.NotificationRepository,
	}
}

// WithinTx runs fn with repositories bound to a single READ COMMITTED
// transaction. Aggregate rows must be read through
// ConfigurationRepository.GetForUpdate so that concurrent writers of the same
// rental queue on the row lock.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	logger.EnterMethod("Store.WithinTx")

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		err = wrapErr("begin transaction", err)
		logger.ExitMethodWithError("Store.WithinTx", err)
		return err
	}
	defer tx.Rollback()

	if err := fn(ctx, newRepositories(tx)); err != nil {
		logger.ExitMethodWithError("Store.WithinTx", err, "outcome", "rolled back")
		return err
	}

	if err := tx.Commit(); err != nil {
		err = wrapErr("commit transaction", err)
		logger.ExitMethodWithError("Store.WithinTx", err)
		return err
	}

	logger.ExitMethod("Store.WithinTx", "outcome", "committed")
	return nil
}

// wrapErr tags a storage error as a persistence failure, keeping the
// PostgreSQL error code when there is one.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var already *domain.PersistenceError
	if errors.As(err, &already) {
		return err
	}
	pe := &domain.PersistenceError{Op: op, Err: err}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		pe.Code = string(pqErr.Code)
	}
	return pe
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
