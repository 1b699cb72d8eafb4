// Package logger builds *slog.Logger values for dataguard and holds the
// attribute helpers that keep log keys consistent across packages.
//
// Config reads APP_ENV, LOG_LEVEL and LOG_FORMAT. The environment picks a
// preset (development: text at DEBUG; staging and production: JSON at INFO)
// and LOG_LEVEL or LOG_FORMAT override it:
//
//	var cfg logger.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	opts, err := cfg.Options("dataguard")
//	if err != nil {
//		return err
//	}
//	log := logger.New(append(opts,
//		logger.WithOutput(os.Stderr),
//		logger.WithContextExtractors(api.RequestIDExtractor()),
//	)...)
//
//	log.InfoContext(ctx, "rule reported violations",
//		logger.RunID(report.RunID),
//		logger.Rule("duplicate_emails"),
//		logger.Violations(3),
//	)
//
// Context extractors run for every record, so attributes such as the HTTP
// request id follow a request into the runner and the sinks without being
// passed along explicitly.
package logger
