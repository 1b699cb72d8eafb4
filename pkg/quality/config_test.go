package quality_test

import (
	"math"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dataguard/pkg/entity"
	"github.com/dmitrymomot/dataguard/pkg/quality"
)

func TestConfig_FromEnvironment(t *testing.T) {
	t.Setenv("DQ_DUPLICATE_ORDER_WINDOW", "2m")
	t.Setenv("DQ_SUSPICIOUS_EMAIL_THRESHOLD", "0.25")
	t.Setenv("DQ_SUSPICIOUS_PATTERNS", `@corp\.test$;qa-`)
	t.Setenv("DQ_RULES", "duplicate_emails, order_totals")

	var cfg quality.Config
	require.NoError(t, env.Parse(&cfg))

	assert.Equal(t, 2*time.Minute, cfg.DuplicateOrderWindow)
	assert.InDelta(t, 0.01, cfg.TotalTolerance, 1e-9)
	assert.Equal(t, []quality.RuleID{quality.RuleDuplicateEmails, quality.RuleOrderTotals}, cfg.RuleIDs())

	opts, err := cfg.Options()
	require.NoError(t, err)
	catalog := quality.NewCatalog(opts...)
	rule, ok := catalog.Get(quality.RuleSuspiciousEmails)
	require.True(t, ok)
	assert.InDelta(t, 0.25, rule.Policy.Threshold, 1e-9)

	f := rule.Evaluate(usersSnapshot(t, user(1, "qa-bot@example.com"), user(2, "test@test.com")), refTime)
	require.Len(t, f.Violations, 1, "configured patterns replace the defaults")
	assert.Equal(t, []int64{1}, f.Violations[0].SubjectIDs)
}

func TestOptions_PanicOnInvalid(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { quality.WithDuplicateOrderWindow(0) })
	assert.Panics(t, func() { quality.WithSuspiciousEmailThreshold(1.5) })
	assert.Panics(t, func() { quality.WithTotalTolerance(-1) })
	assert.Panics(t, func() { quality.WithSuspiciousPatterns("(") })
	assert.NotPanics(t, func() { quality.WithSuspiciousEmailThreshold(0) })
}

func TestConfig_ZeroThresholdsFromEnvironment(t *testing.T) {
	t.Setenv("DQ_SUSPICIOUS_EMAIL_THRESHOLD", "0")
	t.Setenv("DQ_TOTAL_TOLERANCE", "0")

	var cfg quality.Config
	require.NoError(t, env.Parse(&cfg))
	opts, err := cfg.Options()
	require.NoError(t, err)
	catalog := quality.NewCatalog(opts...)

	rule, ok := catalog.Get(quality.RuleSuspiciousEmails)
	require.True(t, ok)
	assert.Zero(t, rule.Policy.Threshold)

	snap, err := entity.NewSnapshot(nil, nil,
		[]entity.Order{{ID: 1, UserID: 1, Status: entity.StatusPending, TotalAmount: 10.01}},
		[]entity.OrderItem{{ID: 1, OrderID: 1, ProductID: 1, Quantity: 1, Price: 10.00}},
	)
	require.NoError(t, err)
	totals, ok := catalog.Get(quality.RuleOrderTotals)
	require.True(t, ok)
	assert.Len(t, totals.Evaluate(snap, refTime).Violations, 1, "zero tolerance means exact equality")
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := quality.Config{
		DuplicateOrderWindow:     time.Minute,
		SuspiciousEmailThreshold: 0.1,
		TotalTolerance:           0.01,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*quality.Config)
	}{
		{"bad pattern", func(c *quality.Config) { c.SuspiciousPatterns = []string{"fake@", "("} }},
		{"threshold above one", func(c *quality.Config) { c.SuspiciousEmailThreshold = 1.5 }},
		{"negative threshold", func(c *quality.Config) { c.SuspiciousEmailThreshold = -0.1 }},
		{"nan threshold", func(c *quality.Config) { c.SuspiciousEmailThreshold = math.NaN() }},
		{"negative tolerance", func(c *quality.Config) { c.TotalTolerance = -0.01 }},
		{"infinite tolerance", func(c *quality.Config) { c.TotalTolerance = math.Inf(1) }},
		{"zero window", func(c *quality.Config) { c.DuplicateOrderWindow = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)

			assert.ErrorIs(t, cfg.Validate(), quality.ErrInvalidConfig)
			var opts []quality.Option
			assert.NotPanics(t, func() {
				var err error
				opts, err = cfg.Options()
				assert.ErrorIs(t, err, quality.ErrInvalidConfig)
			})
			assert.Nil(t, opts)
		})
	}
}
