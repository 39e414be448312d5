package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/repository/postgres"
)

func TestConfigurationRepository_GetForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewConfigurationRepository(db)

	mock.ExpectExec("INSERT INTO rental_configurations (.+) ON CONFLICT \\(rental_id\\) DO NOTHING").
		WithArgs(int32(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM rental_configurations WHERE rental_id = \\$1 FOR UPDATE").
		WithArgs(int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rental_id", "total_payment_amount", "cnam_eligible", "urgent",
			"open_ended", "deposit_amount", "deposit_method", "updated_at"}).
			AddRow(9, 1, "250.50", false, true, false, "0", "", time.Now()))

	cfg, err := repo.GetForUpdate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(9), cfg.ID)
	assert.True(t, decimal.RequireFromString("250.50").Equal(cfg.TotalPaymentAmount))
	assert.True(t, cfg.Urgent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigurationRepository_UpdateTotals(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewConfigurationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cfg := &domain.RentalConfiguration{ID: 9, RentalID: 1, TotalPaymentAmount: decimal.RequireFromString("350.5"), CNAMEligible: true}
		mock.ExpectExec("UPDATE rental_configurations SET total_payment_amount = \\$1, cnam_eligible = \\$2").
			WithArgs("350.5", true, sqlmock.AnyArg(), int32(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateTotals(ctx, cfg))
		assert.False(t, cfg.UpdatedAt.IsZero())
	})

	t.Run("Missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE rental_configurations").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateTotals(ctx, &domain.RentalConfiguration{ID: 10})
		assert.True(t, domain.IsNotFound(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	note := &domain.Notification{
		UserID:     5,
		PatientID:  7,
		RentalID:   1,
		Title:      "Gap period payment due",
		Message:    "msg",
		Type:       domain.NotificationTypePaymentDue,
		Priority:   domain.NotificationPriorityHigh,
		DueDate:    due,
		Attributes: map[string]string{"gap_reason": "CNAM_PENDING"},
	}

	mock.ExpectQuery("INSERT INTO notifications").
		WithArgs(int32(5), int32(7), int32(1), note.Title, note.Message, "PAYMENT_DUE", "HIGH", due, false,
			[]byte(`{"gap_reason":"CNAM_PENDING"}`), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))

	require.NoError(t, postgres.NewNotificationRepository(db).Create(context.Background(), note))
	assert.Equal(t, int32(21), note.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_List_NullableColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "user_id", "patient_id", "rental_id", "title", "message", "type", "priority",
		"due_date", "is_read", "attributes", "created_at"}

	mock.ExpectQuery("SELECT count").WithArgs(int32(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT id, user_id, patient_id").WithArgs(int32(5), int32(20), int32(0)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 5, 3, 7, "Gap period payment due", "msg", "PAYMENT_DUE", "HIGH", due, false,
				[]byte(`{"gap_reason":"CNAM_EXPIRED"}`), created).
			AddRow(2, 5, nil, nil, "Manual reminder", "msg", "PAYMENT_DUE", "MEDIUM", nil, true, nil, created))

	notes, total, err := postgres.NewNotificationRepository(db).List(context.Background(), 5, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(2), total)
	require.Len(t, notes, 2)
	assert.Equal(t, int32(7), notes[0].RentalID)
	assert.Equal(t, due, notes[0].DueDate)
	assert.Equal(t, "CNAM_EXPIRED", notes[0].Attributes["gap_reason"])
	assert.Equal(t, int32(0), notes[1].PatientID)
	assert.Equal(t, int32(0), notes[1].RentalID)
	assert.True(t, notes[1].DueDate.IsZero())
	assert.Nil(t, notes[1].Attributes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
