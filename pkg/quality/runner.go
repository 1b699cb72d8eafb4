package quality

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/dataguard/pkg/entity"
	"github.com/dmitrymomot/dataguard/pkg/logger"
)

// Runner evaluates a fixed selection of rules against snapshots.
// A Runner holds no per-run state and is safe for concurrent use.
type Runner struct {
	rules       []Rule
	clock       func() time.Time
	log         *slog.Logger
	metrics     *Metrics
	parallelism int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock sets the time source used to capture the reference time of a run.
func WithClock(clock func() time.Time) RunnerOption {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

func WithMetrics(m *Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithParallelism limits the number of rules evaluated at once. Zero or a
// negative value means no limit.
func WithParallelism(n int) RunnerOption {
	return func(r *Runner) { r.parallelism = n }
}

func NewRunner(rules []Rule, opts ...RunnerOption) *Runner {
	r := &Runner{
		rules: rules,
		clock: time.Now,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rules returns the rules evaluated by the runner.
func (r *Runner) Rules() []Rule {
	return slices.Clone(r.rules)
}

// Run evaluates every rule against snap and applies each rule's policy.
// The reference time is captured once so that all rules agree on "now".
// Rules run concurrently; each writes only its own result slot and the
// results keep the runner's rule order.
func (r *Runner) Run(ctx context.Context, snap *entity.Snapshot) (*Report, error) {
	if snap == nil {
		return nil, ErrSnapshotUnavailable
	}

	runID := uuid.New()
	now := r.clock()
	start := time.Now()
	log := r.log.With(logger.RunID(runID))
	log.DebugContext(ctx, "validation run started", logger.Count(len(r.rules)))

	results := make([]RuleResult, len(r.rules))
	g, gctx := errgroup.WithContext(ctx)
	if r.parallelism > 0 {
		g.SetLimit(r.parallelism)
	}
	for i, rule := range r.rules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = evaluate(rule, snap, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WarnContext(ctx, "validation run aborted", logger.Error(err))
		return nil, errors.Join(ErrRunAborted, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrRunAborted, err)
	}

	report := &Report{
		RunID:     runID,
		StartedAt: now,
		Duration:  time.Since(start),
		Results:   results,
	}
	report.Summary = summarize(results)

	for _, res := range results {
		if res.Status == StatusPassed {
			continue
		}
		level := slog.LevelInfo
		if res.Status == StatusFailed {
			level = slog.LevelWarn
		}
		log.Log(ctx, level, "rule reported violations",
			logger.Rule(string(res.Rule)),
			logger.Status(string(res.Status)),
			logger.Violations(len(res.Violations)),
		)
	}
	log.InfoContext(ctx, "validation run finished",
		logger.Status(string(report.Summary.Status)),
		logger.Duration(report.Duration),
	)

	r.metrics.observe(report)
	return report, nil
}

func evaluate(rule Rule, snap *entity.Snapshot, now time.Time) RuleResult {
	start := time.Now()
	f := rule.Evaluate(snap, now)
	res := RuleResult{
		Rule:       rule.ID,
		Category:   rule.Category,
		Severity:   rule.Severity,
		Policy:     rule.Policy,
		Status:     rule.Policy.Decide(f),
		Scanned:    f.Scanned,
		Flagged:    f.Flagged(),
		Critical:   f.Critical(),
		Violations: f.Violations,
		Duration:   time.Since(start),
	}
	res.Warnings = len(f.Violations) - res.Critical
	if res.Violations == nil {
		res.Violations = []Violation{}
	}
	return res
}
