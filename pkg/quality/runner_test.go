package quality_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dataguard/pkg/entity"
	"github.com/dmitrymomot/dataguard/pkg/quality"
)

func fixedClock() func() time.Time {
	return func() time.Time { return refTime }
}

func TestRunner_CleanDataset(t *testing.T) {
	t.Parallel()

	runner := quality.NewRunner(quality.NewCatalog().Rules(), quality.WithClock(fixedClock()))
	report, err := runner.Run(context.Background(), cleanSnapshot(t))
	require.NoError(t, err)

	assert.True(t, report.Passed())
	assert.Equal(t, quality.StatusPassed, report.Summary.Status)
	assert.Equal(t, 19, report.Summary.Total)
	assert.Equal(t, 19, report.Summary.Passed)
	assert.Empty(t, report.Violations())
	assert.Empty(t, report.Failed())
	assert.Equal(t, refTime, report.StartedAt)
	assert.NotEqual(t, [16]byte{}, [16]byte(report.RunID))
}

func dirtySnapshot(t *testing.T) *entity.Snapshot {
	t.Helper()
	users, products, orders, items := cleanData()
	users = append(users, entity.User{ID: 4, Name: "Jane Doe", Email: "Jane@Example.com", CreatedAt: refTime.Add(-time.Hour)})
	products[0].Price = -5
	orders[1].TotalAmount = 100
	items = append(items, entity.OrderItem{ID: 2000, OrderID: 999, ProductID: 10, Quantity: 1, Price: -5})
	snap, err := entity.NewSnapshot(users, products, orders, items)
	require.NoError(t, err)
	return snap
}

func TestRunner_DirtyDataset(t *testing.T) {
	t.Parallel()

	runner := quality.NewRunner(quality.NewCatalog().Rules(), quality.WithClock(fixedClock()), quality.WithParallelism(3))
	report, err := runner.Run(context.Background(), dirtySnapshot(t))
	require.NoError(t, err)

	assert.False(t, report.Passed())
	assert.Equal(t, quality.StatusFailed, report.Summary.Status)

	for _, id := range []quality.RuleID{
		quality.RuleDuplicateEmails,
		quality.RuleEmailCaseConsistency,
		quality.RuleProductPrice,
		quality.RuleOrderTotals,
		quality.RuleOrphanOrderItems,
	} {
		res, ok := report.Result(id)
		require.True(t, ok, id)
		assert.Equal(t, quality.StatusFailed, res.Status, id)
		assert.False(t, res.Passed(), id)
		assert.Positive(t, res.Critical, id)
	}

	names, ok := report.Result(quality.RuleDuplicateNames)
	require.True(t, ok)
	assert.Equal(t, quality.StatusWarned, names.Status)
	assert.True(t, names.Passed())

	// results keep rule order
	for i, rule := range runner.Rules() {
		assert.Equal(t, rule.ID, report.Results[i].Rule)
	}
	assert.Equal(t, report.Summary.Total, report.Summary.Passed+report.Summary.Warned+report.Summary.Failed)
	assert.Equal(t, len(report.Violations()), report.Summary.Critical+report.Summary.Warnings)
}

func TestRunner_RulesReturnsCopy(t *testing.T) {
	t.Parallel()

	runner := quality.NewRunner(quality.NewCatalog().Rules())
	rules := runner.Rules()
	require.NotEmpty(t, rules)
	first := rules[0].ID
	rules[0].ID = "tampered"

	assert.Equal(t, first, runner.Rules()[0].ID)
}

func TestRunner_Idempotent(t *testing.T) {
	t.Parallel()

	snap := dirtySnapshot(t)
	runner := quality.NewRunner(quality.NewCatalog().Rules(), quality.WithClock(fixedClock()))

	first, err := runner.Run(context.Background(), snap)
	require.NoError(t, err)
	second, err := runner.Run(context.Background(), snap)
	require.NoError(t, err)

	assert.Equal(t, first.Violations(), second.Violations())
	assert.Equal(t, first.Summary, second.Summary)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunner_ClockCapturedOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	clock := func() time.Time {
		calls.Add(1)
		return refTime
	}
	_, err := quality.NewRunner(quality.NewCatalog().Rules(), quality.WithClock(clock)).Run(context.Background(), cleanSnapshot(t))
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRunner_Errors(t *testing.T) {
	t.Parallel()

	runner := quality.NewRunner(quality.NewCatalog().Rules())

	t.Run("nil snapshot", func(t *testing.T) {
		t.Parallel()
		_, err := runner.Run(context.Background(), nil)
		require.ErrorIs(t, err, quality.ErrSnapshotUnavailable)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := runner.Run(ctx, cleanSnapshot(t))
		require.ErrorIs(t, err, quality.ErrRunAborted)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunner_Metrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics := quality.NewMetrics(reg)
	runner := quality.NewRunner(quality.NewCatalog().Rules(), quality.WithClock(fixedClock()), quality.WithMetrics(metrics))

	_, err := runner.Run(context.Background(), dirtySnapshot(t))
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "dataguard_rule_failures_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 5)

	n, err = testutil.GatherAndCount(reg, "dataguard_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = testutil.GatherAndCount(reg, "dataguard_run_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRule_EvaluateNilSnapshot(t *testing.T) {
	t.Parallel()

	f := mustRule(t, quality.RuleDuplicateEmails).Evaluate(nil, refTime)
	assert.Empty(t, f.Violations)
	assert.Zero(t, f.Scanned)
}
