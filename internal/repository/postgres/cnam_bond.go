package postgres

import (
	"context"
	"database/sql"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/logger"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/repository"
)

type cnamBondRepository struct {
	db DBTX
}

func NewCNAMBondRepository(db DBTX) repository.CNAMBondRepository {
	return &cnamBondRepository{db: db}
}

func (r *cnamBondRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.CNAMBond, error) {
	logger.EnterMethod("cnamBondRepository.ListByRental", "rentalID", rentalID)

	query := `SELECT id, rental_id, patient_id, COALESCE(bond_number, ''), COALESCE(dossier_number, ''),
	                 COALESCE(bond_type, ''), status, monthly_amount, total_amount, covered_months,
	                 start_date, end_date, created_at
	          FROM cnam_bonds WHERE rental_id = $1
	          ORDER BY start_date ASC NULLS LAST, id ASC`
	logger.DatabaseCall("SELECT", "cnam_bonds", "rentalID", rentalID)

	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		err = wrapErr("list cnam bonds", err)
		logger.ExitMethodWithError("cnamBondRepository.ListByRental", err, "rentalID", rentalID)
		return nil, err
	}
	defer rows.Close()

	bonds := []domain.CNAMBond{}
	for rows.Next() {
		var b domain.CNAMBond
		var start, end sql.NullTime
		if err := rows.Scan(&b.ID, &b.RentalID, &b.PatientID, &b.BondNumber, &b.DossierNumber,
			&b.BondType, &b.Status, &b.MonthlyAmount, &b.TotalAmount, &b.CoveredMonths,
			&start, &end, &b.CreatedAt); err != nil {
			return nil, wrapErr("scan cnam bond", err)
		}
		if start.Valid {
			t := start.Time
			b.StartDate = &t
		}
		if end.Valid {
			t := end.Time
			b.EndDate = &t
		}
		bonds = append(bonds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list cnam bonds", err)
	}

	logger.ExitMethod("cnamBondRepository.ListByRental", "rentalID", rentalID, "count", len(bonds))
	return bonds, nil
}
