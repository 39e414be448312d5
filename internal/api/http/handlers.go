package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/service"
)

const maxBodyBytes = 1 << 20

type PeriodHandler struct {
	periodSvc service.PeriodService
}

func NewPeriodHandler(periodSvc service.PeriodService) *PeriodHandler {
	return &PeriodHandler{periodSvc: periodSvc}
}

// GeneratePeriods handles POST /api/v1/rentals/{rentalID}/periods
func (h *PeriodHandler) GeneratePeriods(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rentalID, err := rentalIDFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req GeneratePeriodsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, r, &domain.InvalidPeriodError{Reason: "malformed request body"})
		return
	}

	defs := make([]domain.PeriodDefinition, 0, len(req.Periods))
	for i, p := range req.Periods {
		def, err := MapPeriodRequestToDomain(i+1, p)
		if err != nil {
			writeError(w, r, err)
			return
		}
		defs = append(defs, def)
	}

	created, err := h.periodSvc.GeneratePeriods(r.Context(), userID, rentalID, defs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"periods": mapPeriods(created)})
}

// ListPeriods handles GET /api/v1/rentals/{rentalID}/periods
func (h *PeriodHandler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	rentalID, err := rentalIDFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	periods, err := h.periodSvc.ListPeriods(r.Context(), rentalID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"periods": mapPeriods(periods)})
}

type GapCorrectionHandler struct {
	gapSvc service.GapCorrectionService
}

func NewGapCorrectionHandler(gapSvc service.GapCorrectionService) *GapCorrectionHandler {
	return &GapCorrectionHandler{gapSvc: gapSvc}
}

// CorrectRental handles POST /api/v1/rentals/{rentalID}/gap-corrections.
// Only dry_run=false persists corrections.
func (h *GapCorrectionHandler) CorrectRental(w http.ResponseWriter, r *http.Request) {
	rentalID, err := rentalIDFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dryRun := true
	if raw := r.URL.Query().Get("dry_run"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, &requestError{status: http.StatusBadRequest, msg: "invalid dry_run value"})
			return
		}
		dryRun = v
	}

	run, err := h.gapSvc.CorrectRental(r.Context(), rentalID, dryRun)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapCorrectionRunToResponse(run))
}

// QuoteGap handles GET /api/v1/rentals/{rentalID}/gap-quote?start=&end=
func (h *GapCorrectionHandler) QuoteGap(w http.ResponseWriter, r *http.Request) {
	rentalID, err := rentalIDFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	start, err := domain.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, r, &requestError{status: http.StatusBadRequest, msg: "start must be YYYY-MM-DD"})
		return
	}
	end, err := domain.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, r, &requestError{status: http.StatusBadRequest, msg: "end must be YYYY-MM-DD"})
		return
	}

	quote, err := h.gapSvc.QuoteGap(r.Context(), rentalID, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GapQuoteResponse{
		RentalID:  rentalID,
		StartDate: domain.FormatDate(start),
		EndDate:   domain.FormatDate(end),
		Days:      quote.Days,
		DailyRate: quote.DailyRate.StringFixed(2),
		Amount:    quote.Amount.StringFixed(2),
		Formula:   quote.Formula,
	})
}

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

// ListNotifications handles GET /api/v1/notifications?page=&page_size=
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	notes, total, err := h.noteSvc.GetNotifications(r.Context(), userID, queryInt32(r, "page", 1), queryInt32(r, "page_size", 20))
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := NotificationListResponse{Notifications: make([]NotificationResponse, 0, len(notes)), Total: total}
	for _, n := range notes {
		resp.Notifications = append(resp.Notifications, MapDomainNotificationToResponse(n))
	}
	writeJSON(w, http.StatusOK, resp)
}
