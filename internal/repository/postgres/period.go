package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/logger"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/repository"
)

type periodRepository struct {
	db DBTX
}

func NewPeriodRepository(db DBTX) repository.PeriodRepository {
	return &periodRepository{db: db}
}

func (r *periodRepository) Create(ctx context.Context, p *domain.RentalPeriod) error {
	logger.EnterMethod("periodRepository.Create", "rentalID", p.RentalID, "isGap", p.IsGapPeriod)

	query := `INSERT INTO rental_periods (rental_id, start_date, end_date, amount, payment_method, is_gap_period,
	                                      gap_reason, cnam_bond_id, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	logger.DatabaseCall("INSERT", "rental_periods", "rentalID", p.RentalID)

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		p.RentalID, p.StartDate, p.EndDate, p.Amount, p.PaymentMethod, p.IsGapPeriod,
		nullString(string(p.GapReason)), p.CNAMBondID, p.Notes, now, now,
	).Scan(&p.ID)
	logger.DatabaseResult("INSERT", 1, err, "periodID", p.ID)
	if err != nil {
		err = wrapErr("insert rental period", err)
		logger.ExitMethodWithError("periodRepository.Create", err, "rentalID", p.RentalID)
		return err
	}

	p.CreatedAt = now
	p.UpdatedAt = now
	logger.ExitMethod("periodRepository.Create", "periodID", p.ID)
	return nil
}

func (r *periodRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.RentalPeriod, error) {
	query := `SELECT id, rental_id, start_date, end_date, amount, payment_method, is_gap_period,
	                 gap_reason, cnam_bond_id, COALESCE(notes, ''), created_at, updated_at
	          FROM rental_periods WHERE rental_id = $1
	          ORDER BY start_date ASC, id ASC`
	logger.DatabaseCall("SELECT", "rental_periods", "rentalID", rentalID)

	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, wrapErr("list rental periods", err)
	}
	defer rows.Close()

	periods := []domain.RentalPeriod{}
	for rows.Next() {
		var p domain.RentalPeriod
		var gapReason sql.NullString
		var bondID sql.NullInt32
		if err := rows.Scan(&p.ID, &p.RentalID, &p.StartDate, &p.EndDate, &p.Amount, &p.PaymentMethod, &p.IsGapPeriod,
			&gapReason, &bondID, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, wrapErr("scan rental period", err)
		}
		p.GapReason = domain.GapReason(gapReason.String)
		if bondID.Valid {
			id := bondID.Int32
			p.CNAMBondID = &id
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list rental periods", err)
	}

	logger.DatabaseResult("SELECT", int64(len(periods)), nil, "rentalID", rentalID)
	return periods, nil
}

func (r *periodRepository) UpdateAmount(ctx context.Context, id int32, amount decimal.Decimal) error {
	query := `UPDATE rental_periods SET amount = $1, updated_at = $2 WHERE id = $3`
	logger.DatabaseCall("UPDATE", "rental_periods", "periodID", id, "amount", amount.String())

	result, err := r.db.ExecContext(ctx, query, amount, time.Now(), id)
	if err != nil {
		return wrapErr("update rental period amount", err)
	}
	rows, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", rows, err, "periodID", id)
	if err != nil {
		return wrapErr("update rental period amount", err)
	}
	if rows == 0 {
		return &domain.NotFoundError{Entity: "rental period", ID: id}
	}
	return nil
}
