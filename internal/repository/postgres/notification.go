package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/logger"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/repository"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	logger.EnterMethod("notificationRepository.Create", "userID", n.UserID, "rentalID", n.RentalID, "priority", n.Priority)

	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "reason", "failed to marshal attributes")
		return err
	}

	query := `INSERT INTO notifications (user_id, patient_id, rental_id, title, message, type, priority, due_date,
	                                     is_read, attributes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	logger.DatabaseCall("INSERT", "notifications", "userID", n.UserID, "rentalID", n.RentalID)

	now := time.Now()
	err = r.db.QueryRowContext(ctx, query, n.UserID, n.PatientID, n.RentalID, n.Title, n.Message, n.Type, n.Priority,
		n.DueDate, n.IsRead, attrs, now).Scan(&n.ID)
	logger.DatabaseResult("INSERT", 1, err, "notificationID", n.ID)

	if err != nil {
		err = wrapErr("insert notification", err)
		logger.ExitMethodWithError("notificationRepository.Create", err, "userID", n.UserID)
		return err
	}
	n.CreatedAt = now
	logger.ExitMethod("notificationRepository.Create", "notificationID", n.ID)
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM notifications WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, wrapErr("count notifications", err)
	}

	query := `SELECT id, user_id, patient_id, rental_id, title, message, type, priority, due_date, is_read, attributes, created_at
	          FROM notifications WHERE user_id = $1 ORDER BY due_date ASC, id ASC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, wrapErr("list notifications", err)
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		var patientID, rentalID sql.NullInt32
		var dueDate sql.NullTime
		if err := rows.Scan(&n.ID, &n.UserID, &patientID, &rentalID, &n.Title, &n.Message, &n.Type, &n.Priority,
			&dueDate, &n.IsRead, &attrs, &n.CreatedAt); err != nil {
			return nil, 0, wrapErr("scan notification", err)
		}
		n.PatientID = patientID.Int32
		n.RentalID = rentalID.Int32
		if dueDate.Valid {
			n.DueDate = dueDate.Time
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, err
			}
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("list notifications", err)
	}
	return notes, count, nil
}
