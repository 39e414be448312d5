package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/logger"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/repository"
)

type configurationRepository struct {
	db DBTX
}

func NewConfigurationRepository(db DBTX) repository.ConfigurationRepository {
	return &configurationRepository{db: db}
}

func (r *configurationRepository) GetForUpdate(ctx context.Context, rentalID int32) (*domain.RentalConfiguration, error) {
	logger.EnterMethod("configurationRepository.GetForUpdate", "rentalID", rentalID)

	ensure := `INSERT INTO rental_configurations (rental_id, total_payment_amount, cnam_eligible, updated_at)
	           VALUES ($1, 0, FALSE, $2) ON CONFLICT (rental_id) DO NOTHING`
	logger.DatabaseCall("INSERT", "rental_configurations", "rentalID", rentalID)
	if _, err := r.db.ExecContext(ctx, ensure, rentalID, time.Now()); err != nil {
		err = wrapErr("ensure rental configuration", err)
		logger.ExitMethodWithError("configurationRepository.GetForUpdate", err, "rentalID", rentalID)
		return nil, err
	}

	query := `SELECT id, rental_id, total_payment_amount, cnam_eligible, urgent, open_ended,
	                 COALESCE(deposit_amount, 0), COALESCE(deposit_method, ''), updated_at
	          FROM rental_configurations WHERE rental_id = $1 FOR UPDATE`
	logger.DatabaseCall("SELECT FOR UPDATE", "rental_configurations", "rentalID", rentalID)

	cfg := &domain.RentalConfiguration{}
	err := r.db.QueryRowContext(ctx, query, rentalID).Scan(
		&cfg.ID, &cfg.RentalID, &cfg.TotalPaymentAmount, &cfg.CNAMEligible, &cfg.Urgent, &cfg.OpenEnded,
		&cfg.DepositAmount, &cfg.DepositMethod, &cfg.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		err = &domain.NotFoundError{Entity: "rental configuration", ID: rentalID}
		logger.ExitMethodWithError("configurationRepository.GetForUpdate", err)
		return nil, err
	}
	if err != nil {
		err = wrapErr("lock rental configuration", err)
		logger.ExitMethodWithError("configurationRepository.GetForUpdate", err, "rentalID", rentalID)
		return nil, err
	}

	logger.ExitMethod("configurationRepository.GetForUpdate", "rentalID", rentalID, "total", cfg.TotalPaymentAmount.String())
	return cfg, nil
}

func (r *configurationRepository) UpdateTotals(ctx context.Context, cfg *domain.RentalConfiguration) error {
	query := `UPDATE rental_configurations SET total_payment_amount = $1, cnam_eligible = $2, updated_at = $3 WHERE id = $4`
	logger.DatabaseCall("UPDATE", "rental_configurations", "configID", cfg.ID, "total", cfg.TotalPaymentAmount.String())

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, cfg.TotalPaymentAmount, cfg.CNAMEligible, now, cfg.ID)
	if err != nil {
		return wrapErr("update rental configuration", err)
	}
	rows, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", rows, err, "configID", cfg.ID)
	if err != nil {
		return wrapErr("update rental configuration", err)
	}
	if rows == 0 {
		return &domain.NotFoundError{Entity: "rental configuration", ID: cfg.ID}
	}
	cfg.UpdatedAt = now
	return nil
}
