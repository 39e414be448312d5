package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/logger"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/service"
)

// Services groups what the HTTP surface calls into.
type Services struct {
	Periods       service.PeriodService
	GapCorrection service.GapCorrectionService
	Notifications service.NotificationService
}

// NewRouter registers every billing endpoint.
func NewRouter(svcs Services) *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	periods := NewPeriodHandler(svcs.Periods)
	api.HandleFunc("/rentals/{rentalID:[0-9]+}/periods", periods.GeneratePeriods).Methods("POST")
	api.HandleFunc("/rentals/{rentalID:[0-9]+}/periods", periods.ListPeriods).Methods("GET")

	gaps := NewGapCorrectionHandler(svcs.GapCorrection)
	api.HandleFunc("/rentals/{rentalID:[0-9]+}/gap-corrections", gaps.CorrectRental).Methods("POST")
	api.HandleFunc("/rentals/{rentalID:[0-9]+}/gap-quote", gaps.QuoteGap).Methods("GET")

	notes := NewNotificationHandler(svcs.Notifications)
	api.HandleFunc("/notifications", notes.ListNotifications).Methods("GET")

	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
