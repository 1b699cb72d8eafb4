package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/dataguard/pkg/entity"
	"github.com/dmitrymomot/dataguard/pkg/httpserver"
	"github.com/dmitrymomot/dataguard/pkg/logger"
	"github.com/dmitrymomot/dataguard/pkg/probe"
	"github.com/dmitrymomot/dataguard/pkg/quality"
	"github.com/dmitrymomot/dataguard/svc/reporting"
)

// SnapshotSource produces the snapshot a run validates.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*entity.Snapshot, error)
}

// SnapshotFunc adapts a function to SnapshotSource.
type SnapshotFunc func(ctx context.Context) (*entity.Snapshot, error)

func (f SnapshotFunc) Snapshot(ctx context.Context) (*entity.Snapshot, error) { return f(ctx) }

// ProbeRunner executes constraint probes; *probe.Prober satisfies it.
type ProbeRunner interface {
	Run(ctx context.Context, probes ...probe.Probe) (probe.Results, error)
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	catalog      *quality.Catalog
	source       SnapshotSource
	sink         reporting.Sink
	prober       ProbeRunner
	probes       []probe.Probe
	checks       []httpserver.Check
	checkTimeout time.Duration
	gatherer     prometheus.Gatherer
	runnerOpts   []quality.RunnerOption
	log          *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithSink delivers every finished report to s.
func WithSink(s reporting.Sink) Option {
	return func(srv *Server) { srv.sink = s }
}

// WithProber enables POST /v1/probes with the given probe catalog.
func WithProber(p ProbeRunner, probes ...probe.Probe) Option {
	if p == nil {
		panic("WithProber: nil prober")
	}
	return func(srv *Server) {
		srv.prober = p
		srv.probes = probes
	}
}

// WithReadiness registers dependency checks for /health/ready.
func WithReadiness(timeout time.Duration, checks ...httpserver.Check) Option {
	return func(srv *Server) {
		srv.checkTimeout = timeout
		srv.checks = append(srv.checks, checks...)
	}
}

// WithGatherer serves /metrics from g.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(srv *Server) { srv.gatherer = g }
}

// WithRunnerOptions is applied to the runner of every validation request.
func WithRunnerOptions(opts ...quality.RunnerOption) Option {
	return func(srv *Server) { srv.runnerOpts = append(srv.runnerOpts, opts...) }
}

func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) {
		if l != nil {
			srv.log = l
		}
	}
}

// NewServer returns a Server validating snapshots from source against catalog.
func NewServer(catalog *quality.Catalog, source SnapshotSource, opts ...Option) *Server {
	if catalog == nil {
		panic("api.NewServer: nil catalog")
	}
	if source == nil {
		panic("api.NewServer: nil snapshot source")
	}
	s := &Server{
		catalog:      catalog,
		source:       source,
		sink:         reporting.NopSink{},
		checkTimeout: 2 * time.Second,
		gatherer:     prometheus.DefaultGatherer,
		log:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { fail(w, ErrNotFound) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { fail(w, ErrMethodNotAllowed) })

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(s.log, s.checkTimeout, s.checks...))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/rules", s.listRules)
		r.Get("/rules/{id}", s.getRule)
		r.Post("/runs", s.createRun)
		r.Post("/probes", s.runProbes)
	})

	return r
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.InfoContext(r.Context(), "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			logger.Duration(time.Since(start)),
		)
	})
}
