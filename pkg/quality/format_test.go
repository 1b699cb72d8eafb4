package quality_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dataguard/pkg/entity"
	"github.com/dmitrymomot/dataguard/pkg/quality"
)

func TestEmailFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		want  []string
	}{
		{"jane@example.com", nil},
		{"first.last+tag@sub.example.co", nil},
		{"jane.example.com", []string{"malformed_at", "pattern_mismatch"}},
		{"a@b@c.com", []string{"malformed_at", "pattern_mismatch"}},
		{"@example.com", []string{"malformed_at", "pattern_mismatch"}},
		{"jane@", []string{"malformed_at", "pattern_mismatch"}},
		{"jane@example", []string{"domain_missing_dot", "pattern_mismatch"}},
		{"jane @example.com", []string{"pattern_mismatch", "whitespace"}},
		{" jane@example.com", []string{"pattern_mismatch", "whitespace"}},
		{"jane@example.c", []string{"pattern_mismatch"}},
		{"jane@exam_ple.com", []string{"pattern_mismatch"}},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()
			f := mustRule(t, quality.RuleEmailFormat).Evaluate(usersSnapshot(t, user(1, tt.email)), refTime)
			if tt.want == nil {
				assert.Empty(t, f.Violations)
				return
			}
			assert.ElementsMatch(t, tt.want, codes(f.Violations))
			for _, v := range f.Violations {
				assert.Equal(t, quality.SeverityCritical, v.Severity)
				assert.Equal(t, []int64{1}, v.SubjectIDs)
			}
		})
	}
}

func suspiciousPopulation(t *testing.T, total, suspicious int) *entity.Snapshot {
	t.Helper()
	users := make([]entity.User, 0, total)
	for i := range total {
		email := fmt.Sprintf("person%d@example.com", i)
		if i < suspicious {
			email = fmt.Sprintf("person%d@mailinator.com", i)
		}
		users = append(users, user(int64(i+1), email))
	}
	return usersSnapshot(t, users...)
}

func TestSuspiciousEmails_Threshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		suspicious int
		want       quality.Status
	}{
		{"fifteen percent fails", 15, quality.StatusFailed},
		{"exactly ten percent is advisory", 10, quality.StatusWarned},
		{"five percent is advisory", 5, quality.StatusWarned},
		{"none", 0, quality.StatusPassed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rule := mustRule(t, quality.RuleSuspiciousEmails)
			f := rule.Evaluate(suspiciousPopulation(t, 100, tt.suspicious), refTime)

			assert.Len(t, f.Violations, tt.suspicious)
			assert.Equal(t, 100, f.Scanned)
			assert.Zero(t, f.Critical())
			assert.Equal(t, tt.want, rule.Policy.Decide(f))
		})
	}
}

func TestSuspiciousEmails_Patterns(t *testing.T) {
	t.Parallel()

	snap := usersSnapshot(t,
		user(1, "Test@Test.com"),
		user(2, "noreply@shop.io"),
		user(3, "bob12345@example.com"),
		user(4, "bob1234@example.com"),
		user(5, "jane@guerrillamail.net"),
	)

	f := mustRule(t, quality.RuleSuspiciousEmails).Evaluate(snap, refTime)
	var ids []int64
	for _, v := range f.Violations {
		ids = append(ids, v.SubjectIDs[0])
	}
	assert.Equal(t, []int64{1, 2, 3, 5}, ids)

	custom := mustRule(t, quality.RuleSuspiciousEmails, quality.WithSuspiciousPatterns(`@shop\.io$`))
	f = custom.Evaluate(snap, refTime)
	require.Len(t, f.Violations, 1)
	assert.Equal(t, []string{"noreply@shop.io", `@shop\.io$`}, f.Violations[0].Values)
}

func TestEmailCaseConsistency(t *testing.T) {
	t.Parallel()

	snap := usersSnapshot(t,
		user(1, "Jane@Example.com"),
		user(2, "jane@example.com"),
		user(3, "JANE@EXAMPLE.COM"),
		user(4, "same@example.com"),
		user(5, "same@example.com"),
	)

	rule := mustRule(t, quality.RuleEmailCaseConsistency)
	f := rule.Evaluate(snap, refTime)
	require.Len(t, f.Violations, 1, "identical spellings are not case drift")

	v := f.Violations[0]
	assert.Equal(t, "email_case_drift", v.Code)
	assert.Equal(t, quality.SeverityCritical, v.Severity)
	assert.Equal(t, []int64{1, 2, 3}, v.SubjectIDs)
	assert.Equal(t, []string{"JANE@EXAMPLE.COM", "Jane@Example.com", "jane@example.com"}, v.Values)
	assert.Equal(t, quality.StatusFailed, rule.Policy.Decide(f))
}
