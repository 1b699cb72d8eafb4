package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/dataguard/pkg/config"
	"github.com/dmitrymomot/dataguard/pkg/entity"
	"github.com/dmitrymomot/dataguard/pkg/httpserver"
	"github.com/dmitrymomot/dataguard/pkg/probe"
	"github.com/dmitrymomot/dataguard/pkg/quality"
	"github.com/dmitrymomot/dataguard/pkg/store"
	"github.com/dmitrymomot/dataguard/svc/api"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve validation runs, the rule catalog and constraint probes over HTTP",
		Description: `Start the HTTP API:

  GET  /v1/rules          rule catalog
  GET  /v1/rules/{id}     one rule
  POST /v1/runs           validate a fresh snapshot (?rules=a,b&format=json|yaml|text)
  POST /v1/probes         run constraint probes (?probes=a,b)
  GET  /health/live       liveness
  GET  /health/ready      readiness of Postgres and every enabled sink
  GET  /metrics           Prometheus metrics

Snapshots come from Postgres unless --snapshot names a JSON document, which
is then re-read for every run. Probes need Postgres.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "listen address (overrides HTTP_ADDR)",
				Sources: cli.EnvVars("DQ_LISTEN_ADDR"),
			},
			&cli.StringFlag{
				Name:    "snapshot",
				Aliases: []string{"s"},
				Usage:   "serve runs from a JSON snapshot document instead of Postgres",
			},
			&cli.DurationFlag{
				Name:  "ready-timeout",
				Usage: "bound on each readiness check",
				Value: 2 * time.Second,
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	catalog, qcfg, err := loadCatalog()
	if err != nil {
		return err
	}

	path := cmd.String("snapshot")
	if path == "" && !postgresConfigured() {
		return ErrNoSnapshotSource
	}

	var source api.SnapshotSource
	if path != "" {
		source = api.SnapshotFunc(func(context.Context) (*entity.Snapshot, error) {
			return store.LoadFile(path)
		})
	}
	opts := []api.Option{api.WithLogger(log)}

	var pool *pgxpool.Pool
	if postgresConfigured() {
		p, _, err := connectPostgres(ctx, log)
		if err != nil {
			return err
		}
		defer p.Close()
		pool = p

		if source == nil {
			source = api.SnapshotFunc(func(ctx context.Context) (*entity.Snapshot, error) {
				return store.Load(ctx, pool)
			})
		}
		opts = append(opts, api.WithProber(
			probe.NewProber(pool, probe.WithLogger(log)),
			store.ConstraintProbes()...,
		))
	}

	sinks, err := loadSinkConfig()
	if err != nil {
		return err
	}
	delivery, err := buildDelivery(ctx, log, pool, sinks)
	if err != nil {
		return err
	}
	defer delivery.Close(context.WithoutCancel(ctx))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := quality.NewMetrics(reg)

	opts = append(opts,
		api.WithSink(delivery.fanout),
		api.WithReadiness(cmd.Duration("ready-timeout"), delivery.checks...),
		api.WithGatherer(reg),
		api.WithRunnerOptions(
			quality.WithLogger(log),
			quality.WithMetrics(metrics),
			quality.WithParallelism(qcfg.Parallelism),
		),
	)
	srv := api.NewServer(catalog, source, opts...)

	var hcfg httpserver.Config
	if err := config.Load(&hcfg); err != nil {
		return err
	}
	httpOpts := []httpserver.Option{httpserver.WithLogger(log)}
	if addr := cmd.String("addr"); addr != "" {
		httpOpts = append(httpOpts, httpserver.WithAddr(addr))
	}
	return httpserver.NewFromConfig(hcfg, httpOpts...).Run(ctx, srv.Router())
}
