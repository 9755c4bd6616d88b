package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter registers every route of the API.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(h.log))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: http.StatusText(http.StatusMethodNotAllowed)})
	})

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	r.HandleFunc("/api/projects", h.CreateProject).Methods(http.MethodPost)
	r.HandleFunc("/api/projects", h.ListProjects).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{projectId}", h.GetProject).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{projectId}/fund", h.FundProject).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{projectId}/tasks", h.ListTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{projectId}/tasks", h.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{projectId}/hierarchy", h.Hierarchy).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{projectId}/critical-path", h.CriticalPath).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{projectId}/milestones", h.ListMilestones).Methods(http.MethodGet)

	r.HandleFunc("/api/tasks/{taskId}", h.GetTask).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskId}", h.UpdateTask).Methods(http.MethodPatch)
	r.HandleFunc("/api/tasks/{taskId}", h.DeleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks/{taskId}/progress", h.UpdateProgress).Methods(http.MethodPut)

	r.HandleFunc("/api/templates", h.ListTemplates).Methods(http.MethodGet)
	r.HandleFunc("/api/templates/{projectType}", h.GetTemplate).Methods(http.MethodGet)
	return r
}

// NewServer wraps handler in an http.Server with conservative timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(log logrus.FieldLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			entry := log.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			if rec.status >= http.StatusInternalServerError {
				entry.Warn("http request")
				return
			}
			entry.Info("http request")
		})
	}
}
