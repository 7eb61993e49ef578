package cronsim

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the backend's route table.
func NewRouter(handler *Handler, logger *logrus.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware(logger))

	router.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/jobs/", handler.ListJobs).Methods(http.MethodGet)
	router.HandleFunc("/create_job/", handler.CreateJob).Methods(http.MethodPost)
	router.HandleFunc("/update_job/{id:[0-9]+}/", handler.UpdateJob).Methods(http.MethodPut)
	router.HandleFunc("/job/{id:[0-9]+}/", handler.DeleteJob).Methods(http.MethodDelete)
	router.HandleFunc("/run_job/{id:[0-9]+}/", handler.RunJob).Methods(http.MethodGet)
	router.HandleFunc("/toggle_job/{id:[0-9]+}/", handler.ToggleJob).Methods(http.MethodPost)
	router.HandleFunc("/refresh_logs/{id:[0-9]+}/", handler.RefreshLogs).Methods(http.MethodGet)
	router.HandleFunc("/clear_logs/{id:[0-9]+}/", handler.ClearLogs).Methods(http.MethodPost)

	return router
}

func loggingMiddleware(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{w, http.StatusOK}
			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			var durationStr string
			if duration < time.Millisecond {
				durationStr = fmt.Sprintf("%.2fµs", float64(duration.Microseconds()))
			} else if duration < time.Second {
				durationStr = fmt.Sprintf("%.2fms", float64(duration.Milliseconds()))
			} else {
				durationStr = fmt.Sprintf("%.2fs", duration.Seconds())
			}

			logger.WithFields(logrus.Fields{
				"method":    r.Method,
				"path":      r.URL.Path,
				"status":    rw.status,
				"duration":  durationStr,
				"remote_ip": r.RemoteAddr,
			}).Info("Request processed")
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
