package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/dataguard/pkg/quality"
)

// Beginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SaveReport persists a run, its rule results and its violations in one transaction.
func SaveReport(ctx context.Context, db Beginner, r *quality.Report) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return errors.Join(ErrSaveReport, err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	s := r.Summary
	if _, err := tx.Exec(ctx, `
		INSERT INTO validation_runs (id, started_at, duration_ms, status, total, passed, warned, failed, critical, warnings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.RunID, r.StartedAt, r.Duration.Milliseconds(), string(s.Status),
		s.Total, s.Passed, s.Warned, s.Failed, s.Critical, s.Warnings,
	); err != nil {
		return errors.Join(ErrSaveReport, err)
	}

	batch := &pgx.Batch{}
	for _, res := range r.Results {
		batch.Queue(`
			INSERT INTO rule_results (run_id, rule, category, policy, status, scanned, flagged, critical, warnings)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			r.RunID, string(res.Rule), string(res.Category), res.Policy.String(), string(res.Status),
			res.Scanned, res.Flagged, res.Critical, res.Warnings,
		)
		for _, v := range res.Violations {
			evidence, err := json.Marshal(v.Evidence)
			if err != nil {
				return errors.Join(ErrSaveReport, err)
			}
			batch.Queue(`
				INSERT INTO violations (run_id, rule, category, severity, code, entity, subject_ids, message, evidence)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				r.RunID, string(v.Rule), string(v.Category), string(v.Severity), v.Code,
				string(v.Entity), v.SubjectIDs, v.Message, evidence,
			)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Join(ErrSaveReport, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrSaveReport, err)
	}
	return nil
}
