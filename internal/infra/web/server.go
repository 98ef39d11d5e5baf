package web

import (
	"net/http"

	"ai-video-writer/internal/infra/jobs"
	"ai-video-writer/internal/infra/logging"
	"ai-video-writer/internal/infra/quota"
	"ai-video-writer/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Server struct {
	reportUC  usecase.ReportUseCase
	articleUC usecase.ArticleUseCase
	registry  *jobs.Registry
	executor  *jobs.Executor
	ledger    *quota.Ledger
	auth      *AuthManager
	apiSecret string
	log       *zerolog.Logger
}

func NewServer(
	reportUC usecase.ReportUseCase,
	articleUC usecase.ArticleUseCase,
	registry *jobs.Registry,
	executor *jobs.Executor,
	ledger *quota.Ledger,
	auth *AuthManager,
	apiSecret string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		reportUC:  reportUC,
		articleUC: articleUC,
		registry:  registry,
		executor:  executor,
		ledger:    ledger,
		auth:      auth,
		apiSecret: apiSecret,
		log:       logger,
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.traceID)
	r.Use(s.requestLog)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/token", s.handleMintToken)

		r.Group(func(r chi.Router) {
			r.Use(s.auth.Middleware)
			r.Post("/reports", s.handleCreateReport)
			r.Post("/articles", s.handleCreateArticle)
			r.Get("/jobs/running", s.handleRunningJobs)
			r.Get("/jobs/{id}", s.handleGetJob)
			r.Delete("/jobs/{id}", s.handleDeleteJob)
			r.Get("/quota", s.handleQuota)
		})
	})
	return r
}

func (s *Server) traceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithTraceID(r.Context(), uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := logging.With(r.Context(), s.log)
		ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		l.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.status).
			Msg("http request")
	})
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
