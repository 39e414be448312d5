package http

import (
	"github.com/shopspring/decimal"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/service"
)

type PeriodRequest struct {
	StartDate     *string          `json:"start_date"`
	EndDate       *string          `json:"end_date"`
	Amount        *decimal.Decimal `json:"amount"`
	PaymentMethod string           `json:"payment_method"`
	IsGapPeriod   bool             `json:"is_gap_period"`
	GapReason     string           `json:"gap_reason,omitempty"`
	CNAMBondID    *int32           `json:"cnam_bond_id,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

type GeneratePeriodsRequest struct {
	Periods []PeriodRequest `json:"periods"`
}

type PeriodResponse struct {
	ID            int32  `json:"id"`
	RentalID      int32  `json:"rental_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Days          int    `json:"days"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	IsGapPeriod   bool   `json:"is_gap_period"`
	GapReason     string `json:"gap_reason,omitempty"`
	CNAMBondID    *int32 `json:"cnam_bond_id,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

type CorrectionResponse struct {
	PeriodID          int32  `json:"period_id"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	Days              int    `json:"days"`
	OldAmount         string `json:"old_amount"`
	NewAmount         string `json:"new_amount"`
	Difference        string `json:"difference"`
	PercentDifference string `json:"percent_difference"`
	DailyRate         string `json:"daily_rate"`
	Explanation       string `json:"explanation"`
}

type CorrectionRunResponse struct {
	RunID       string               `json:"run_id"`
	RentalID    int32                `json:"rental_id"`
	DryRun      bool                 `json:"dry_run"`
	Applied     bool                 `json:"applied"`
	Savings     string               `json:"savings"`
	Periods     []PeriodResponse     `json:"periods"`
	Corrections []CorrectionResponse `json:"corrections"`
	Report      string               `json:"report"`
}

type GapQuoteResponse struct {
	RentalID  int32  `json:"rental_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
	DailyRate string `json:"daily_rate"`
	Amount    string `json:"amount"`
	Formula   string `json:"formula"`
}

type NotificationResponse struct {
	ID         int32             `json:"id"`
	RentalID   int32             `json:"rental_id"`
	PatientID  int32             `json:"patient_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Type       string            `json:"type"`
	Priority   string            `json:"priority"`
	DueDate    string            `json:"due_date"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int32                  `json:"total"`
}

// MapPeriodRequestToDomain converts the entry at the 1-based position index.
// Absent dates and amount stay nil so the service reports them by name.
func MapPeriodRequestToDomain(index int, req PeriodRequest) (domain.PeriodDefinition, error) {
	def := domain.PeriodDefinition{
		Amount:        req.Amount,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		CNAMBondID:    req.CNAMBondID,
		Notes:         req.Notes,
	}
	if req.StartDate != nil {
		d, err := domain.ParseDate(*req.StartDate)
		if err != nil {
			return def, &domain.InvalidPeriodError{Index: index, Reason: "malformed start date"}
		}
		def.StartDate = &d
	}
	if req.EndDate != nil {
		d, err := domain.ParseDate(*req.EndDate)
		if err != nil {
			return def, &domain.InvalidPeriodError{Index: index, Reason: "malformed end date"}
		}
		def.EndDate = &d
	}
	// Only the caller's flag classifies a period as a gap.
	if req.IsGapPeriod {
		def.Gap = &domain.GapMarker{Reason: domain.GapReason(req.GapReason)}
	} else if req.GapReason != "" {
		return def, &domain.InvalidPeriodError{Index: index, Reason: "gap reason set on a covered period"}
	}
	return def, nil
}

func MapDomainPeriodToResponse(p domain.RentalPeriod) PeriodResponse {
	return PeriodResponse{
		ID:            p.ID,
		RentalID:      p.RentalID,
		StartDate:     domain.FormatDate(p.StartDate),
		EndDate:       domain.FormatDate(p.EndDate),
		Days:          p.Days(),
		Amount:        p.Amount.StringFixed(2),
		PaymentMethod: string(p.PaymentMethod),
		IsGapPeriod:   p.IsGapPeriod,
		GapReason:     string(p.GapReason),
		CNAMBondID:    p.CNAMBondID,
		Notes:         p.Notes,
	}
}

func mapPeriods(periods []domain.RentalPeriod) []PeriodResponse {
	out := make([]PeriodResponse, 0, len(periods))
	for _, p := range periods {
		out = append(out, MapDomainPeriodToResponse(p))
	}
	return out
}

func MapCorrectionRunToResponse(run *service.CorrectionRun) CorrectionRunResponse {
	corrections := make([]CorrectionResponse, 0, len(run.Corrections))
	for _, c := range run.Corrections {
		corrections = append(corrections, CorrectionResponse{
			PeriodID:          c.PeriodID,
			StartDate:         domain.FormatDate(c.StartDate),
			EndDate:           domain.FormatDate(c.EndDate),
			Days:              c.Days,
			OldAmount:         c.OldAmount.StringFixed(2),
			NewAmount:         c.NewAmount.StringFixed(2),
			Difference:        c.Difference.StringFixed(2),
			PercentDifference: c.PercentDifference.StringFixed(2),
			DailyRate:         c.DailyRate.StringFixed(2),
			Explanation:       c.Explanation,
		})
	}
	return CorrectionRunResponse{
		RunID:       run.RunID,
		RentalID:    run.RentalID,
		DryRun:      run.DryRun,
		Applied:     run.Applied,
		Savings:     run.Savings().StringFixed(2),
		Periods:     mapPeriods(run.Periods),
		Corrections: corrections,
		Report:      run.Report,
	}
}

func MapDomainNotificationToResponse(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		RentalID:   n.RentalID,
		PatientID:  n.PatientID,
		Title:      n.Title,
		Message:    n.Message,
		Type:       string(n.Type),
		Priority:   string(n.Priority),
		DueDate:    domain.FormatDate(n.DueDate),
		IsRead:     n.IsRead,
		Attributes: n.Attributes,
	}
}
