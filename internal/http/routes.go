package httpx

import (
	"log/slog"
	"net/http"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Applications *service.ApplicationService
	Scheduler    *service.SchedulerService
	// Optional: database handle for readiness checks.
	DB     Pinger
	Logger *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	appHandlers := &ApplicationHandlers{Svc: services.Applications}
	schedulerHandlers := &SchedulerHandlers{Svc: services.Scheduler}

	registerApplicationRoutes(mux, appHandlers)
	registerSchedulerRoutes(mux, schedulerHandlers)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /readyz", readyHandler(services.DB))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerApplicationRoutes(mux *http.ServeMux, h *ApplicationHandlers) {
	mux.HandleFunc("POST /api/applications", h.Apply)
	mux.HandleFunc("GET /api/applications/stats", h.Stats)
	mux.HandleFunc("GET /api/applications/{id}", h.GetByID)
	mux.HandleFunc("POST /api/applications/{id}/review", h.Review)
	mux.HandleFunc("POST /api/applications/{id}/decision", h.Decide)
	mux.HandleFunc("GET /api/candidates/{candidateID}/applications", h.ListByCandidate)
}

func registerSchedulerRoutes(mux *http.ServeMux, h *SchedulerHandlers) {
	mux.HandleFunc("POST /api/applications/{id}/schedule", h.Schedule)
	mux.HandleFunc("GET /api/applications/{id}/calendar", h.CalendarInvite)
}
