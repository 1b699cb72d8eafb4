package quality_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dataguard/pkg/entity"
	"github.com/dmitrymomot/dataguard/pkg/quality"
)

var refTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// cleanData returns a small dataset that passes every rule.
func cleanData() ([]entity.User, []entity.Product, []entity.Order, []entity.OrderItem) {
	past := refTime.Add(-48 * time.Hour)
	users := []entity.User{
		{ID: 1, Name: "Jane Doe", Email: "jane@example.com", CreatedAt: past, IsActive: true, Age: entity.IntPtr(34)},
		{ID: 2, Name: "John Roe", Email: "john.roe@example.org", CreatedAt: past, IsActive: true, Age: entity.IntPtr(41)},
		{ID: 3, Name: "Ann Poe", Email: "ann+shop@example.net", CreatedAt: past, IsActive: false},
	}
	products := []entity.Product{
		{ID: 10, Name: "Keyboard", SKU: "KB-001", Price: 49.99, Stock: 20, CreatedAt: past},
		{ID: 11, Name: "Mouse", SKU: "MS-001", Price: 19.50, Stock: 5, CreatedAt: past},
	}
	orders := []entity.Order{
		{ID: 100, UserID: 1, Status: entity.StatusCompleted, TotalAmount: 88.99, CreatedAt: past.Add(time.Hour)},
		{ID: 101, UserID: 2, Status: entity.StatusPending, TotalAmount: 19.50, CreatedAt: past.Add(2 * time.Hour)},
	}
	items := []entity.OrderItem{
		{ID: 1000, OrderID: 100, ProductID: 10, Quantity: 1, Price: 49.99},
		{ID: 1001, OrderID: 100, ProductID: 11, Quantity: 2, Price: 19.50},
		{ID: 1002, OrderID: 101, ProductID: 11, Quantity: 1, Price: 19.50},
	}
	return users, products, orders, items
}

func cleanSnapshot(t *testing.T) *entity.Snapshot {
	t.Helper()
	snap, err := entity.NewSnapshot(cleanData())
	require.NoError(t, err)
	return snap
}

func mustRule(t *testing.T, id quality.RuleID, opts ...quality.Option) quality.Rule {
	t.Helper()
	rule, ok := quality.NewCatalog(opts...).Get(id)
	require.True(t, ok, "rule %s not in catalog", id)
	return rule
}

func codes(vs []quality.Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Code)
	}
	return out
}

func usersSnapshot(t *testing.T, users ...entity.User) *entity.Snapshot {
	t.Helper()
	snap, err := entity.NewSnapshot(users, nil, nil, nil)
	require.NoError(t, err)
	return snap
}

func user(id int64, email string) entity.User {
	return entity.User{ID: id, Name: "user", Email: email, CreatedAt: refTime.Add(-time.Hour), IsActive: true}
}
