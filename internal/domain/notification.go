package domain

import "time"

type NotificationType string

const (
	NotificationTypePaymentDue NotificationType = "PAYMENT_DUE"
)

type NotificationPriority string

const (
	NotificationPriorityHigh   NotificationPriority = "HIGH"
	NotificationPriorityMedium NotificationPriority = "MEDIUM"
)

type Notification struct {
	ID         int32                `json:"id"`
	UserID     int32                `json:"user_id"`
	PatientID  int32                `json:"patient_id"`
	RentalID   int32                `json:"rental_id"`
	Title      string               `json:"title"`
	Message    string               `json:"message"`
	Type       NotificationType     `json:"type"`
	Priority   NotificationPriority `json:"priority"`
	DueDate    time.Time            `json:"due_date"`
	IsRead     bool                 `json:"is_read"`
	Attributes map[string]string    `json:"attributes"`
	CreatedAt  time.Time            `json:"created_at"`
}
