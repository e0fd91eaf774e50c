package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/tendant/presign-service/pkg/presign"
	"github.com/tendant/presign-service/pkg/presign/metrics"
)

// PresignPath is the route of the presign endpoint
const PresignPath = "/presigned-url"

// RouterConfig holds the dependencies of the HTTP surface
type RouterConfig struct {
	Signer  presign.Signer
	Logger  *slog.Logger
	Metrics *metrics.Metrics // nil disables /metrics and request metrics
	Timeout time.Duration    // default: 60s
}

// NewRouter builds the service router
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(CORSMiddleware)
	r.Use(LoggingMiddleware(logger))
	if cfg.Metrics != nil {
		r.Use(MetricsMiddleware(cfg.Metrics))
	}
	r.Use(RecoveryMiddleware(logger))
	r.Use(middleware.Timeout(timeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	})

	opts := []PresignHandlerOption{WithLogger(logger)}
	if cfg.Metrics != nil {
		opts = append(opts, WithIssueRecorder(cfg.Metrics))
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	presignHandler := NewPresignHandler(cfg.Signer, opts...)
	r.Get(PresignPath, presignHandler.HandlePresignedURL)

	return r
}
