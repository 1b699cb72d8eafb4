package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/dataguard/pkg/logger"
	"github.com/dmitrymomot/dataguard/pkg/probe"
	"github.com/dmitrymomot/dataguard/pkg/report"
	"github.com/dmitrymomot/dataguard/pkg/store"
)

func probeCmd() *cli.Command {
	return &cli.Command{
		Name:  "probe",
		Usage: "Check that Postgres rejects constraint-violating writes",
		Description: `Attempt writes that violate the schema's declared constraints
(duplicate unique keys, NULL required columns, dangling foreign keys, parent
deletes) inside transactions that are always rolled back.

Exit status is 2 when the store accepted any of them.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "probes",
				Aliases: []string{"p"},
				Usage:   "probe names to run, comma separated (default: all)",
			},
			&cli.DurationFlag{
				Name:  "probe-timeout",
				Usage: "bound on each probe transaction",
				Value: probe.DefaultTimeout,
			},
			&cli.BoolFlag{
				Name:  "list",
				Usage: "list the available probes and exit",
			},
			formatFlag,
			outputFlag,
		},
		Action: runProbe,
	}
}

func runProbe(ctx context.Context, cmd *cli.Command) error {
	if _, err := report.ParseFormat(cmd.String("format")); err != nil {
		return err
	}
	if cmd.Bool("list") {
		return listProbes(cmd)
	}

	selected, err := probe.Select(store.ConstraintProbes(), cmd.StringSlice("probes")...)
	if err != nil {
		return err
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	pool, _, err := connectPostgres(ctx, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	prober := probe.NewProber(pool,
		probe.WithLogger(log),
		probe.WithTimeout(cmd.Duration("probe-timeout")),
	)
	results, err := prober.Run(ctx, selected...)
	if err != nil {
		return err
	}

	if err := writeOutput(cmd, results); err != nil {
		return err
	}

	failed := results.Failed()
	if len(failed) == 0 {
		return nil
	}
	names := make([]string, len(failed))
	for i, r := range failed {
		names[i] = r.Probe
		log.WarnContext(ctx, "constraint not enforced", logger.Probe(r.Probe), logger.Status(string(r.Constraint)))
	}
	return fmt.Errorf("%w: %s", ErrConstraintNotEnforced, strings.Join(names, ", "))
}

func listProbes(cmd *cli.Command) error {
	w := cmd.Root().Writer
	for _, p := range store.ConstraintProbes() {
		if _, err := fmt.Fprintf(w, "%-28s %-16s %s\n", p.Name, p.Constraint, p.Description); err != nil {
			return err
		}
	}
	return nil
}
