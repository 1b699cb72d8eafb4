package reporting

import (
	"context"

	"github.com/dmitrymomot/dataguard/pkg/quality"
	"github.com/dmitrymomot/dataguard/pkg/store"
)

// PGSink persists reports in the validation_runs, rule_results and violations tables.
type PGSink struct {
	db store.Beginner
}

func NewPGSink(db store.Beginner) *PGSink {
	return &PGSink{db: db}
}

func (s *PGSink) Store(ctx context.Context, r *quality.Report) error {
	if r == nil {
		return ErrNilReport
	}
	return store.SaveReport(ctx, s.db, r)
}
