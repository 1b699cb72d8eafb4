package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/dataguard/pkg/entity"
	"github.com/dmitrymomot/dataguard/pkg/logger"
	"github.com/dmitrymomot/dataguard/pkg/quality"
	"github.com/dmitrymomot/dataguard/pkg/report"
	"github.com/dmitrymomot/dataguard/pkg/store"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Run the rule catalog against a dataset snapshot",
		Description: `Load a snapshot, evaluate the selected rules and print the report.

The snapshot is read from Postgres (PG_CONN_URL) unless --snapshot names a
JSON snapshot document. The finished report is delivered to every configured
sink (Postgres, Redis, MongoDB, OpenSearch, S3, webhook, email) unless
--no-deliver is set.

Exit status is 2 when the run fails, or when it only warns and
--fail-on-warning is set.

# Examples

Run every rule against the database:
  dataguard validate

Run two rules against a file and write JSON:
  dataguard validate --snapshot snapshot.json -r duplicate_emails,order_totals -f json -o report.json`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "rules",
				Aliases: []string{"r"},
				Usage:   "rule ids to run, comma separated (default: DQ_RULES or every rule)",
			},
			&cli.StringFlag{
				Name:    "snapshot",
				Aliases: []string{"s"},
				Usage:   "read the dataset from a JSON snapshot document instead of Postgres",
			},
			&cli.BoolFlag{
				Name:  "fail-on-warning",
				Usage: "exit with non-zero status when any rule warns",
			},
			&cli.BoolFlag{
				Name:  "no-deliver",
				Usage: "do not deliver the report to the configured sinks",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "wall-clock budget for loading and evaluating (0 means none)",
			},
			formatFlag,
			outputFlag,
		},
		Action: runValidate,
	}
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	if _, err := report.ParseFormat(cmd.String("format")); err != nil {
		return err
	}
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	catalog, qcfg, err := loadCatalog()
	if err != nil {
		return err
	}
	rules, err := selectRules(catalog, qcfg, cmd.StringSlice("rules"))
	if err != nil {
		return err
	}

	runCtx := ctx
	if d := cmd.Duration("timeout"); d > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	var pool *pgxpool.Pool
	if postgresConfigured() {
		p, _, err := connectPostgres(runCtx, log)
		if err != nil {
			return err
		}
		defer p.Close()
		pool = p
	}

	snap, err := loadSnapshot(runCtx, cmd.String("snapshot"), pool)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "snapshot loaded",
		slog.Int("users", snap.Len(entity.KindUser)),
		slog.Int("products", snap.Len(entity.KindProduct)),
		slog.Int("orders", snap.Len(entity.KindOrder)),
		slog.Int("order_items", snap.Len(entity.KindOrderItem)),
	)

	runner := quality.NewRunner(rules,
		quality.WithLogger(log),
		quality.WithParallelism(qcfg.Parallelism),
	)
	rep, err := runner.Run(runCtx, snap)
	if err != nil {
		return err
	}

	var deliveryErr error
	if !cmd.Bool("no-deliver") {
		deliveryErr = deliver(ctx, log, pool, rep)
	}

	if err := writeOutput(cmd, rep); err != nil {
		return errors.Join(err, deliveryErr)
	}

	return errors.Join(verdict(rep, cmd.Bool("fail-on-warning")), deliveryErr)
}

// loadSnapshot prefers an explicit snapshot file over the database.
func loadSnapshot(ctx context.Context, path string, pool *pgxpool.Pool) (*entity.Snapshot, error) {
	switch {
	case path != "":
		return store.LoadFile(path)
	case pool != nil:
		return store.Load(ctx, pool)
	default:
		return nil, ErrNoSnapshotSource
	}
}

func deliver(ctx context.Context, log *slog.Logger, pool *pgxpool.Pool, rep *quality.Report) error {
	cfg, err := loadSinkConfig()
	if err != nil {
		return err
	}
	d, err := buildDelivery(ctx, log, pool, cfg)
	if err != nil {
		return err
	}
	defer d.Close(context.WithoutCancel(ctx))

	if err := d.fanout.Store(ctx, rep); err != nil {
		log.ErrorContext(ctx, "report delivery incomplete", logger.RunID(rep.RunID), logger.Error(err))
		return err
	}
	return nil
}

// verdict turns the run status into the command result.
func verdict(rep *quality.Report, failOnWarning bool) error {
	s := rep.Summary
	switch {
	case s.Status == quality.StatusFailed:
		return fmt.Errorf("%w: %d of %d rules failed, %d critical violations", ErrRunFailed, s.Failed, s.Total, s.Critical)
	case s.Status == quality.StatusWarned && failOnWarning:
		return fmt.Errorf("%w: %d of %d rules warned", ErrRunFailed, s.Warned, s.Total)
	default:
		return nil
	}
}

func postgresConfigured() bool {
	return os.Getenv("PG_CONN_URL") != ""
}
