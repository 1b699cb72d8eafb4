package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/dataguard/pkg/logger"
	"github.com/dmitrymomot/dataguard/pkg/pg"
	"github.com/dmitrymomot/dataguard/pkg/store"
)

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the dataguard Postgres schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: withMigrations(func(ctx context.Context, cmd *cli.Command, m migrator) error {
					if err := pg.Migrate(ctx, m.pool, m.fsys, m.cfg, m.log); err != nil {
						return err
					}
					return m.printVersion(ctx, cmd)
				}),
			},
			{
				Name:  "down",
				Usage: "roll back the most recent migration",
				Action: withMigrations(func(ctx context.Context, cmd *cli.Command, m migrator) error {
					if err := pg.Rollback(ctx, m.pool, m.fsys, m.cfg, m.log); err != nil {
						return err
					}
					return m.printVersion(ctx, cmd)
				}),
			},
			{
				Name:  "status",
				Usage: "print the applied schema version",
				Action: withMigrations(func(ctx context.Context, cmd *cli.Command, m migrator) error {
					return m.printVersion(ctx, cmd)
				}),
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 {
				return fmt.Errorf("%w: %q", ErrUnknownMigrateAction, cmd.Args().First())
			}
			return cli.ShowSubcommandHelp(cmd)
		},
	}
}

type migrator struct {
	pool *pgxpool.Pool
	fsys fs.FS
	cfg  pg.Config
	log  *slog.Logger
}

func (m migrator) printVersion(ctx context.Context, cmd *cli.Command) error {
	v, err := pg.MigrationVersion(ctx, m.pool, m.fsys, m.cfg, m.log)
	if err != nil {
		return err
	}
	m.log.InfoContext(ctx, "schema version", logger.Component("migrate"), slog.Int64("version", v))
	_, err = fmt.Fprintf(cmd.Root().Writer, "schema version: %d\n", v)
	return err
}

func withMigrations(fn func(ctx context.Context, cmd *cli.Command, m migrator) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		pool, cfg, err := connectPostgres(ctx, log)
		if err != nil {
			return err
		}
		defer pool.Close()
		return fn(ctx, cmd, migrator{pool: pool, fsys: store.Migrations(), cfg: cfg, log: log})
	}
}
