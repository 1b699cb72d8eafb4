package entity

import "time"

// Kind names one of the entity collections of a snapshot.
type Kind string

const (
	KindUser      Kind = "user"
	KindProduct   Kind = "product"
	KindOrder     Kind = "order"
	KindOrderItem Kind = "order_item"
)

// Kinds returns all collection kinds in parent-to-child order.
func Kinds() []Kind {
	return []Kind{KindUser, KindProduct, KindOrder, KindOrderItem}
}

// rank orders kinds for stable sorting of mixed-entity output.
func (k Kind) rank() int {
	switch k {
	case KindUser:
		return 0
	case KindProduct:
		return 1
	case KindOrder:
		return 2
	case KindOrderItem:
		return 3
	default:
		return 4
	}
}

// Less reports whether k sorts before other.
func (k Kind) Less(other Kind) bool {
	return k.rank() < other.rank()
}

// OrderStatus is the lifecycle state stored on an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatuses returns the closed set of accepted statuses.
func ValidOrderStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusCompleted, StatusCancelled}
}

// Valid reports whether s belongs to the accepted status set.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// User is a customer account.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
	Age       *int      `json:"age,omitempty"` // nil when unknown
}

// Product is a sellable stock item.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Order is a purchase placed by a user.
type Order struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	CreatedAt   time.Time   `json:"created_at"`
}

// OrderItem is a single order line. Price is the unit price at the time of the order.
type OrderItem struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Subtotal returns quantity multiplied by unit price.
func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}

// IntPtr is a helper for optional integer fields such as User.Age.
func IntPtr(v int) *int {
	return &v
}
