// Package httpserver wraps net/http with graceful shutdown, functional
// options and health-check handlers.
//
// Run blocks until the context is cancelled, then drains in-flight requests
// within the shutdown timeout. Signal handling belongs to the caller, usually
// signal.NotifyContext in main. Ready and Addr expose the bound listener,
// which matters when the address is ":0". LivenessHandler and
// ReadinessHandler serve the /health endpoints; readiness runs each named
// Check with the request context and reports every broken dependency.
//
//	r := chi.NewRouter()
//	r.Get("/health/live", httpserver.LivenessHandler())
//	r.Get("/health/ready", httpserver.ReadinessHandler(log, 2*time.Second,
//		httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)},
//	))
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Run wraps listen errors with ErrStart and Shutdown wraps shutdown errors
// with ErrShutdown.
package httpserver
