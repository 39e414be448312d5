package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	gapNotificationTitle = "Gap period payment due"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, userID, pageSize, offset)
}

// gapNotification builds the payment-due reminder raised for a generated gap
// period. It is due on the first uncovered day.
func gapNotification(userID int32, rental *domain.Rental, p domain.RentalPeriod) *domain.Notification {
	reason := p.GapReason
	if reason == "" {
		reason = domain.GapReasonOther
	}
	return &domain.Notification{
		UserID:    userID,
		PatientID: rental.PatientID,
		RentalID:  rental.ID,
		Title:     gapNotificationTitle,
		Message: fmt.Sprintf("Rental %s: uncovered period %s to %s, %s due (%s)",
			rentalLabel(rental),
			domain.FormatDate(p.StartDate),
			domain.FormatDate(p.EndDate),
			p.Amount.StringFixed(2),
			reason,
		),
		Type:     domain.NotificationTypePaymentDue,
		Priority: reason.Priority(),
		DueDate:  p.StartDate,
		Attributes: map[string]string{
			"rental_id":  strconv.Itoa(int(rental.ID)),
			"period_id":  strconv.Itoa(int(p.ID)),
			"gap_reason": string(reason),
			"start_date": domain.FormatDate(p.StartDate),
			"end_date":   domain.FormatDate(p.EndDate),
			"amount":     p.Amount.StringFixed(2),
		},
	}
}

func rentalLabel(r *domain.Rental) string {
	if r.RentalCode != "" {
		return r.RentalCode
	}
	return fmt.Sprintf("#%d", r.ID)
}
