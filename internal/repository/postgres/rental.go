package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/logger"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/repository"
)

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	logger.EnterMethod("rentalRepository.GetByID", "rentalID", id)

	query := `SELECT r.id, r.rental_code, r.patient_id, r.device_id, r.status, r.start_date, r.end_date,
	                 COALESCE(r.notes, ''), r.created_at, r.updated_at,
	                 d.id, d.name, COALESCE(d.serial_number, ''), d.monthly_price
	          FROM rentals r JOIN devices d ON d.id = r.device_id
	          WHERE r.id = $1`
	logger.DatabaseCall("SELECT", "rentals", "rentalID", id)

	rt := &domain.Rental{}
	var endDate sql.NullTime
	var monthlyPrice decimal.NullDecimal
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rt.ID, &rt.RentalCode, &rt.PatientID, &rt.DeviceID, &rt.Status, &rt.StartDate, &endDate,
		&rt.Notes, &rt.CreatedAt, &rt.UpdatedAt,
		&rt.Device.ID, &rt.Device.Name, &rt.Device.SerialNumber, &monthlyPrice,
	)
	if errors.Is(err, sql.ErrNoRows) {
		err = &domain.NotFoundError{Entity: "rental", ID: id}
		logger.ExitMethodWithError("rentalRepository.GetByID", err)
		return nil, err
	}
	if err != nil {
		err = wrapErr("select rental", err)
		logger.ExitMethodWithError("rentalRepository.GetByID", err, "rentalID", id)
		return nil, err
	}

	if endDate.Valid {
		end := endDate.Time
		rt.EndDate = &end
	}
	if monthlyPrice.Valid {
		rt.Device.MonthlyPrice = monthlyPrice.Decimal
	}

	logger.ExitMethod("rentalRepository.GetByID", "rentalID", rt.ID, "deviceID", rt.DeviceID)
	return rt, nil
}

func (r *rentalRepository) ListIDsWithGapPeriods(ctx context.Context) ([]int32, error) {
	query := `SELECT DISTINCT rental_id FROM rental_periods WHERE is_gap_period = TRUE ORDER BY rental_id`
	logger.DatabaseCall("SELECT", "rental_periods")

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr("list rentals with gap periods", err)
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, wrapErr("scan rental id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list rentals with gap periods", err)
	}
	logger.DatabaseResult("SELECT", int64(len(ids)), nil)
	return ids, nil
}
