package api

import (
	"net/http"
	"time"

	"github.com/dvloznov/statement-ingest/internal/api/handlers"
	"github.com/dvloznov/statement-ingest/internal/api/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter wires the HTTP surface.
func NewRouter(uploads *handlers.UploadsHandler, jobsHandler *handlers.JobsHandler, log zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Metrics)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(middleware.RequireUser)
	apiRouter.HandleFunc("/uploads", uploads.CreateUpload).Methods(http.MethodPost)
	apiRouter.HandleFunc("/jobs", jobsHandler.ListJobs).Methods(http.MethodGet)
	apiRouter.HandleFunc("/jobs/{id}", jobsHandler.GetJob).Methods(http.MethodGet)

	return middleware.Recovery(log)(
		middleware.RequestID(
			middleware.Logger(log)(
				middleware.CORS(r),
			),
		),
	)
}
