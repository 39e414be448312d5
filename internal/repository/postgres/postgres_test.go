package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/repository"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/repository/postgres"
)

func TestStore_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Commits when fn succeeds", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		store := postgres.NewStore(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE rental_periods SET amount").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int32(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			return repos.Periods.UpdateAmount(ctx, 5, decimal.NewFromInt(100))
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rolls back and returns fn error unchanged", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		store := postgres.NewStore(db)

		mock.ExpectBegin()
		mock.ExpectRollback()

		sentinel := &domain.InvalidPeriodError{Index: 2, Reason: "missing end date"}
		err = store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			return sentinel
		})
		assert.Same(t, sentinel, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Begin failure is a persistence failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		store := postgres.NewStore(db)

		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		called := false
		err = store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			called = true
			return nil
		})
		assert.False(t, called)
		assert.True(t, domain.IsPersistenceFailure(err))
	})

	t.Run("Commit failure carries the database code", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		store := postgres.NewStore(db)

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001", Message: "could not serialize access"})

		err = store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			return nil
		})
		require.Error(t, err)
		assert.True(t, domain.IsPersistenceFailure(err))
		var pe *domain.PersistenceError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "40001", pe.Code)
		assert.Equal(t, "commit transaction", pe.Op)
	})
}

func TestRentalRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()
	columns := []string{"id", "rental_code", "patient_id", "device_id", "status", "start_date", "end_date", "notes",
		"created_at", "updated_at", "d_id", "name", "serial_number", "monthly_price"}

	t.Run("Success", func(t *testing.T) {
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows(columns).
			AddRow(1, "LOC-0001", 7, 3, "ACTIVE", start, nil, "", time.Now(), time.Now(), 3, "Concentrateur O2", "SN-1", "1500.00")

		mock.ExpectQuery("SELECT (.+) FROM rentals r JOIN devices d ON d.id = r.device_id WHERE r.id = \\$1").
			WithArgs(int32(1)).
			WillReturnRows(rows)

		rental, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int32(1), rental.ID)
		assert.Equal(t, int32(7), rental.PatientID)
		assert.Equal(t, domain.RentalStatusActive, rental.Status)
		assert.Nil(t, rental.EndDate)
		assert.Equal(t, "Concentrateur O2", rental.Device.Name)
		assert.True(t, decimal.NewFromInt(1500).Equal(rental.Device.MonthlyPrice))
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rentals").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(columns))

		rental, err := repo.GetByID(ctx, 99)
		assert.Nil(t, rental)
		assert.True(t, domain.IsNotFound(err))
		assert.EqualError(t, err, "rental 99 not found")
	})

	t.Run("Driver error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rentals").
			WithArgs(int32(2)).
			WillReturnError(errors.New("boom"))

		_, err := repo.GetByID(ctx, 2)
		assert.True(t, domain.IsPersistenceFailure(err))
		assert.False(t, domain.IsNotFound(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_ListIDsWithGapPeriods(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT DISTINCT rental_id FROM rental_periods WHERE is_gap_period = TRUE").
		WillReturnRows(sqlmock.NewRows([]string{"rental_id"}).AddRow(3).AddRow(8))

	ids, err := postgres.NewRentalRepository(db).ListIDsWithGapPeriods(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 8}, ids)
}

func TestCNAMBondRepository_ListByRental(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "rental_id", "patient_id", "bond_number", "dossier_number", "bond_type",
		"status", "monthly_amount", "total_amount", "covered_months", "start_date", "end_date", "created_at"}).
		AddRow(4, 1, 7, "B-100", "D-200", "CONCENTRATEUR_OXYGENE", "ACTIVE", "190.00", "570.00", 3, start, nil, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM cnam_bonds WHERE rental_id = \\$1").
		WithArgs(int32(1)).
		WillReturnRows(rows)

	bonds, err := postgres.NewCNAMBondRepository(db).ListByRental(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, bonds, 1)
	assert.Equal(t, domain.CNAMBondStatusActive, bonds[0].Status)
	assert.True(t, decimal.NewFromInt(190).Equal(bonds[0].MonthlyAmount))
	assert.Equal(t, int32(3), bonds[0].CoveredMonths)
	require.NotNil(t, bonds[0].StartDate)
	assert.Equal(t, start, *bonds[0].StartDate)
	assert.Nil(t, bonds[0].EndDate)
}
