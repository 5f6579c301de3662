package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	RPC           http.Handler // JSON-RPC server mounted at POST /rpc
	Identity      *middleware.Identity
	HealthHandler *handlers.HealthHandler
	Log           zerolog.Logger
	Version       string
	CORSOrigins   []string
	Secure        func(http.Handler) http.Handler
	IPRateLimit   func(http.Handler) http.Handler
	UserRateLimit func(http.Handler) http.Handler // applied on /rpc after Identity
	Metrics       bool                            // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	r.Use(middleware.CORS(cfg.CORSOrigins, nil, nil))
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}
	if cfg.Version != "" {
		r.Use(middleware.APIVersion(cfg.Version))
	}
	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/", handlers.Root(cfg.Version))
	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(chimid.AllowContentType("application/json"))
		if cfg.Identity != nil {
			r.Use(cfg.Identity.Handler)
		}
		if cfg.UserRateLimit != nil {
			r.Use(cfg.UserRateLimit)
		}
		r.Post("/rpc", cfg.RPC.ServeHTTP)
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", chimid.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
