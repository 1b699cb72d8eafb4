package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/dataguard/pkg/config"
	"github.com/dmitrymomot/dataguard/pkg/logger"
	"github.com/dmitrymomot/dataguard/pkg/pg"
	"github.com/dmitrymomot/dataguard/pkg/quality"
	"github.com/dmitrymomot/dataguard/pkg/report"
	"github.com/dmitrymomot/dataguard/svc/api"
)

const serviceName = "dataguard"

var (
	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   string(report.FormatText),
		Usage:   fmt.Sprintf("output format (%s)", strings.Join(report.SupportedFormats(), ", ")),
	}
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "write output to this file instead of stdout",
	}
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  serviceName,
		Usage:                 "Data-quality validation for the users/products/orders dataset",
		Version:               fmt.Sprintf("%s (%s)", version, commit),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "load variables from these .env files before reading configuration",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "log format (text, json)",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if files := cmd.StringSlice("env-file"); len(files) > 0 {
				if err := config.LoadEnv(files...); err != nil {
					return ctx, err
				}
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			validateCmd(),
			probeCmd(),
			migrateCmd(),
			rulesCmd(),
			serveCmd(),
		},
	}
}

// newLogger builds the process logger. Logs go to stderr so that reports
// written to stdout stay machine-readable.
func newLogger(cmd *cli.Command) (*slog.Logger, error) {
	var cfg logger.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.Level = lvl
	}
	if f := cmd.String("log-format"); f != "" {
		cfg.Format = f
	}
	opts, err := cfg.Options(serviceName)
	if err != nil {
		return nil, err
	}
	opts = append(opts,
		logger.WithOutput(os.Stderr),
		logger.WithContextExtractors(api.RequestIDExtractor()),
	)
	return logger.New(opts...), nil
}

// loadCatalog builds the rule catalog from DQ_* configuration.
func loadCatalog() (*quality.Catalog, quality.Config, error) {
	var cfg quality.Config
	if err := config.Load(&cfg); err != nil {
		return nil, cfg, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, cfg, err
	}
	return quality.NewCatalog(opts...), cfg, nil
}

// selectRules picks the rules of a run. Explicit ids take precedence over DQ_RULES.
func selectRules(catalog *quality.Catalog, cfg quality.Config, ids []string) ([]quality.Rule, error) {
	selected := quality.ParseRuleIDs(ids)
	if len(selected) == 0 {
		selected = cfg.RuleIDs()
	}
	return catalog.Select(selected...)
}

func connectPostgres(ctx context.Context, log *slog.Logger) (*pgxpool.Pool, pg.Config, error) {
	var cfg pg.Config
	if err := config.Load(&cfg); err != nil {
		return nil, cfg, err
	}
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, cfg, err
	}
	log.DebugContext(ctx, "postgres connected", logger.Component("pg"))
	return pool, cfg, nil
}

// writeOutput renders v in the format selected by --format to --output or stdout.
func writeOutput(cmd *cli.Command, v any) error {
	format, err := report.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	path := cmd.String("output")
	if path == "" || path == "-" {
		return report.NewWriter(format, cmd.Root().Writer).Write(v)
	}

	w, err := report.NewFileWriter(format, path)
	if err != nil {
		return err
	}
	if err := w.Write(v); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
