package entity

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// Snapshot is a read-only view of the four entity collections at one point in time.
type Snapshot struct {
	capturedAt time.Time

	users    map[int64]User
	products map[int64]Product
	orders   map[int64]Order
	items    map[int64]OrderItem

	itemsByOrder   map[int64][]int64
	itemsByProduct map[int64][]int64
	ordersByUser   map[int64][]int64
}

// SnapshotOption configures snapshot construction.
type SnapshotOption func(*Snapshot)

// WithCapturedAt records when the underlying data was read. Defaults to time.Now.
func WithCapturedAt(t time.Time) SnapshotOption {
	return func(s *Snapshot) { s.capturedAt = t }
}

// NewSnapshot indexes the given collections. Records are copied, so later
// changes to the input slices are not observed by the snapshot.
// Foreign keys are indexed even when the referenced parent does not exist.
func NewSnapshot(users []User, products []Product, orders []Order, items []OrderItem, opts ...SnapshotOption) (*Snapshot, error) {
	s := &Snapshot{
		capturedAt:     time.Now(),
		itemsByOrder:   make(map[int64][]int64),
		itemsByProduct: make(map[int64][]int64),
		ordersByUser:   make(map[int64][]int64),
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	if s.users, err = index(KindUser, users, func(u User) int64 { return u.ID }, cloneUser); err != nil {
		return nil, err
	}
	if s.products, err = index(KindProduct, products, func(p Product) int64 { return p.ID }, nil); err != nil {
		return nil, err
	}
	if s.orders, err = index(KindOrder, orders, func(o Order) int64 { return o.ID }, nil); err != nil {
		return nil, err
	}
	if s.items, err = index(KindOrderItem, items, func(i OrderItem) int64 { return i.ID }, nil); err != nil {
		return nil, err
	}

	for _, o := range s.orders {
		s.ordersByUser[o.UserID] = append(s.ordersByUser[o.UserID], o.ID)
	}
	for _, it := range s.items {
		s.itemsByOrder[it.OrderID] = append(s.itemsByOrder[it.OrderID], it.ID)
		s.itemsByProduct[it.ProductID] = append(s.itemsByProduct[it.ProductID], it.ID)
	}
	for _, m := range []map[int64][]int64{s.ordersByUser, s.itemsByOrder, s.itemsByProduct} {
		for k := range m {
			slices.Sort(m[k])
		}
	}

	return s, nil
}

// MustSnapshot is like NewSnapshot but panics on error. Intended for tests and fixtures.
func MustSnapshot(users []User, products []Product, orders []Order, items []OrderItem, opts ...SnapshotOption) *Snapshot {
	s, err := NewSnapshot(users, products, orders, items, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func index[T any](kind Kind, records []T, id func(T) int64, clone func(T) T) (map[int64]T, error) {
	out := make(map[int64]T, len(records))
	for _, r := range records {
		key := id(r)
		if _, ok := out[key]; ok {
			return nil, fmt.Errorf("%w: %s %d", ErrDuplicateID, kind, key)
		}
		if clone != nil {
			r = clone(r)
		}
		out[key] = r
	}
	return out, nil
}

func cloneUser(u User) User {
	if u.Age != nil {
		u.Age = IntPtr(*u.Age)
	}
	return u
}

func sortedValues[T any](m map[int64]T, clone func(T) T) []T {
	ids := slices.Sorted(maps.Keys(m))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		v := m[id]
		if clone != nil {
			v = clone(v)
		}
		out = append(out, v)
	}
	return out
}

func lookup[T any](m map[int64]T, ids []int64) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

// CapturedAt returns the time the snapshot data was read.
func (s *Snapshot) CapturedAt() time.Time { return s.capturedAt }

// Users returns all users sorted by id.
func (s *Snapshot) Users() []User { return sortedValues(s.users, cloneUser) }

// Products returns all products sorted by id.
func (s *Snapshot) Products() []Product { return sortedValues(s.products, nil) }

// Orders returns all orders sorted by id.
func (s *Snapshot) Orders() []Order { return sortedValues(s.orders, nil) }

// OrderItems returns all order items sorted by id.
func (s *Snapshot) OrderItems() []OrderItem { return sortedValues(s.items, nil) }

// User looks up a user by id.
func (s *Snapshot) User(id int64) (User, bool) {
	u, ok := s.users[id]
	if !ok {
		return User{}, false
	}
	return cloneUser(u), true
}

// Product looks up a product by id.
func (s *Snapshot) Product(id int64) (Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

// Order looks up an order by id.
func (s *Snapshot) Order(id int64) (Order, bool) {
	o, ok := s.orders[id]
	return o, ok
}

// OrderItem looks up an order item by id.
func (s *Snapshot) OrderItem(id int64) (OrderItem, bool) {
	i, ok := s.items[id]
	return i, ok
}

// ItemsOf returns the items whose order_id equals orderID, sorted by id.
func (s *Snapshot) ItemsOf(orderID int64) []OrderItem {
	return lookup(s.items, s.itemsByOrder[orderID])
}

// ItemsOfProduct returns the items referencing productID, sorted by id.
func (s *Snapshot) ItemsOfProduct(productID int64) []OrderItem {
	return lookup(s.items, s.itemsByProduct[productID])
}

// OrdersOf returns the orders whose user_id equals userID, sorted by id.
func (s *Snapshot) OrdersOf(userID int64) []Order {
	return lookup(s.orders, s.ordersByUser[userID])
}

// IDs returns the sorted ids of the given collection.
func (s *Snapshot) IDs(kind Kind) []int64 {
	switch kind {
	case KindUser:
		return slices.Sorted(maps.Keys(s.users))
	case KindProduct:
		return slices.Sorted(maps.Keys(s.products))
	case KindOrder:
		return slices.Sorted(maps.Keys(s.orders))
	case KindOrderItem:
		return slices.Sorted(maps.Keys(s.items))
	default:
		return nil
	}
}

// Len returns the number of records in the given collection.
func (s *Snapshot) Len(kind Kind) int {
	switch kind {
	case KindUser:
		return len(s.users)
	case KindProduct:
		return len(s.products)
	case KindOrder:
		return len(s.orders)
	case KindOrderItem:
		return len(s.items)
	default:
		return 0
	}
}
