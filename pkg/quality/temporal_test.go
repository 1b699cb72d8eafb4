package quality_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dataguard/pkg/entity"
	"github.com/dmitrymomot/dataguard/pkg/quality"
)

func TestFutureTimestamps(t *testing.T) {
	t.Parallel()

	future := refTime.Add(time.Hour)
	snap, err := entity.NewSnapshot(
		[]entity.User{
			{ID: 1, Name: "a", Email: "a@example.com", CreatedAt: future},
			{ID: 2, Name: "b", Email: "b@example.com", CreatedAt: refTime},
		},
		[]entity.Product{{ID: 1, Name: "p", SKU: "p", Price: 1, Stock: 1, CreatedAt: refTime.Add(time.Nanosecond)}},
		[]entity.Order{{ID: 1, UserID: 1, Status: entity.StatusPending, TotalAmount: 1, CreatedAt: refTime.Add(-time.Second)}},
		nil,
	)
	require.NoError(t, err)

	f := mustRule(t, quality.RuleFutureTimestamps).Evaluate(snap, refTime)
	require.Len(t, f.Violations, 2)
	assert.Equal(t, 4, f.Scanned)

	assert.Equal(t, entity.KindUser, f.Violations[0].Entity)
	assert.Equal(t, []int64{1}, f.Violations[0].SubjectIDs)
	assert.Equal(t, 3600.0, f.Violations[0].Evidence[quality.EvidenceSecondsAhead])

	assert.Equal(t, entity.KindProduct, f.Violations[1].Entity)
	assert.Equal(t, quality.CategoryTemporal, f.Violations[1].Category)

	assert.Empty(t, mustRule(t, quality.RuleFutureTimestamps).Evaluate(snap, future.Add(time.Second)).Violations)
}
