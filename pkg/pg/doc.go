// Package pg bootstraps PostgreSQL access on top of pgx/v5.
//
// It offers a pooled connection with retry (Connect), goose migrations read
// from an fs.FS such as an embed.FS (Migrate, Rollback, MigrationVersion), a
// readiness closure (Healthcheck) and SQLSTATE helpers used to classify
// constraint violations returned by the server.
//
// # Usage
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, store.Migrations(), cfg, slog.Default()); err != nil {
//	    return err
//	}
//
// # Error Handling
//
// SQLState extracts the code from a *pgconn.PgError. IsDuplicateKeyError,
// IsForeignKeyViolationError, IsNotNullViolationError, IsCheckViolationError
// and IsRestrictViolationError match the individual class 23 codes.
package pg
