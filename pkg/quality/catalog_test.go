package quality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dataguard/pkg/quality"
)

func TestCatalog_Rules(t *testing.T) {
	t.Parallel()

	rules := quality.NewCatalog().Rules()
	require.Len(t, rules, 19)

	seen := make(map[quality.RuleID]bool)
	for _, r := range rules {
		assert.False(t, seen[r.ID], "duplicate rule id %s", r.ID)
		seen[r.ID] = true
		assert.NotEmpty(t, r.Description, r.ID)
		assert.NotEmpty(t, r.Reads, r.ID)
		assert.NotEmpty(t, r.Category, r.ID)
		assert.NotEmpty(t, r.Policy.Kind, r.ID)
	}

	assert.Len(t, quality.NewCatalog().ByCategory(quality.CategoryReferentialIntegrity), 3)
	assert.Len(t, quality.NewCatalog().ByCategory(quality.CategoryDuplicate), 4)
}

func TestCatalog_Select(t *testing.T) {
	t.Parallel()

	catalog := quality.NewCatalog()

	t.Run("empty selects all", func(t *testing.T) {
		t.Parallel()
		rules, err := catalog.Select()
		require.NoError(t, err)
		assert.Len(t, rules, len(catalog.Rules()))
	})

	t.Run("keeps catalog order", func(t *testing.T) {
		t.Parallel()
		rules, err := catalog.Select(quality.RuleFutureTimestamps, quality.RuleDuplicateEmails, quality.RuleDuplicateEmails)
		require.NoError(t, err)
		require.Len(t, rules, 2)
		assert.Equal(t, quality.RuleDuplicateEmails, rules[0].ID)
		assert.Equal(t, quality.RuleFutureTimestamps, rules[1].ID)
	})

	t.Run("unknown ids", func(t *testing.T) {
		t.Parallel()
		_, err := catalog.Select(quality.RuleOrderTotals, "no_such_rule", "other")
		require.ErrorIs(t, err, quality.ErrUnknownRule)
		assert.Contains(t, err.Error(), "no_such_rule, other")
	})
}

func TestCatalog_Get(t *testing.T) {
	t.Parallel()

	rule, ok := quality.NewCatalog().Get(quality.RuleSuspiciousEmails)
	require.True(t, ok)
	assert.Equal(t, quality.PolicyThreshold, rule.Policy.Kind)
	assert.InDelta(t, quality.DefaultSuspiciousEmailThreshold, rule.Policy.Threshold, 1e-9)

	_, ok = quality.NewCatalog().Get("missing")
	assert.False(t, ok)
}

func TestParseRuleIDs(t *testing.T) {
	t.Parallel()

	ids := quality.ParseRuleIDs([]string{" duplicate_emails ", "", "order_totals,future_timestamps,"})
	assert.Equal(t, []quality.RuleID{
		quality.RuleDuplicateEmails,
		quality.RuleOrderTotals,
		quality.RuleFutureTimestamps,
	}, ids)
	assert.Empty(t, quality.ParseRuleIDs(nil))
}
