package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dataguard/pkg/entity"
)

func TestNewSnapshot(t *testing.T) {
	t.Parallel()

	users := []entity.User{
		{ID: 2, Name: "Bob", Email: "bob@example.com", Age: entity.IntPtr(40)},
		{ID: 1, Name: "Alice", Email: "alice@example.com"},
	}
	products := []entity.Product{{ID: 10, Name: "Lamp", SKU: "SKU-1", Price: 12.5, Stock: 3}}
	orders := []entity.Order{
		{ID: 100, UserID: 1, Status: entity.StatusPending, TotalAmount: 25},
		{ID: 101, UserID: 1, Status: entity.StatusCompleted, TotalAmount: 12.5},
		{ID: 102, UserID: 99, Status: entity.StatusPending, TotalAmount: 1},
	}
	items := []entity.OrderItem{
		{ID: 1001, OrderID: 100, ProductID: 10, Quantity: 2, Price: 12.5},
		{ID: 1000, OrderID: 101, ProductID: 10, Quantity: 1, Price: 12.5},
	}

	snap, err := entity.NewSnapshot(users, products, orders, items)
	require.NoError(t, err)

	t.Run("collections are sorted by id", func(t *testing.T) {
		t.Parallel()
		got := snap.Users()
		require.Len(t, got, 2)
		assert.Equal(t, int64(1), got[0].ID)
		assert.Equal(t, int64(2), got[1].ID)
		assert.Equal(t, []int64{1000, 1001}, snap.IDs(entity.KindOrderItem))
	})

	t.Run("reverse indices", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, snap.OrdersOf(1), 2)
		assert.Len(t, snap.OrdersOf(99), 1, "orders of a missing user are still indexed")
		assert.Len(t, snap.ItemsOf(100), 1)
		assert.Len(t, snap.ItemsOfProduct(10), 2)
		assert.Empty(t, snap.ItemsOf(102))
	})

	t.Run("point lookups", func(t *testing.T) {
		t.Parallel()
		u, ok := snap.User(2)
		require.True(t, ok)
		assert.Equal(t, "Bob", u.Name)
		_, ok = snap.Order(999)
		assert.False(t, ok)
	})

	t.Run("len", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 2, snap.Len(entity.KindUser))
		assert.Equal(t, 1, snap.Len(entity.KindProduct))
		assert.Equal(t, 3, snap.Len(entity.KindOrder))
		assert.Equal(t, 2, snap.Len(entity.KindOrderItem))
	})
}

func TestNewSnapshot_DuplicateID(t *testing.T) {
	t.Parallel()

	_, err := entity.NewSnapshot(
		[]entity.User{{ID: 1}, {ID: 1}},
		nil, nil, nil,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrDuplicateID)
	assert.Contains(t, err.Error(), "user 1")
}

func TestSnapshot_IsolatedFromCallers(t *testing.T) {
	t.Parallel()

	age := 30
	users := []entity.User{{ID: 1, Email: "a@example.com", Age: &age}}
	snap := entity.MustSnapshot(users, nil, nil, nil)

	users[0].Email = "changed@example.com"
	age = 99

	got, ok := snap.User(1)
	require.True(t, ok)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, 30, *got.Age)

	*got.Age = 5
	again, _ := snap.User(1)
	assert.Equal(t, 30, *again.Age, "returned records must not alias snapshot state")
}

func TestSnapshot_CapturedAt(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	snap := entity.MustSnapshot(nil, nil, nil, nil, entity.WithCapturedAt(at))
	assert.Equal(t, at, snap.CapturedAt())
}

func TestOrderStatus_Valid(t *testing.T) {
	t.Parallel()

	for _, s := range entity.ValidOrderStatuses() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, entity.OrderStatus("shipped").Valid())
	assert.False(t, entity.OrderStatus("").Valid())
	assert.False(t, entity.OrderStatus("Pending").Valid())
}

func TestOrderItem_Subtotal(t *testing.T) {
	t.Parallel()

	item := entity.OrderItem{Quantity: 3, Price: 33}
	assert.InDelta(t, 99.0, item.Subtotal(), 1e-9)
}
