package quality

import (
	"fmt"
	"math"
	"time"

	"github.com/dmitrymomot/dataguard/pkg/entity"
)

// Range limits applied by the built-in rules.
const (
	MaxUserAge      = 120
	MinorAgeLimit   = 12
	MaxProductPrice = 1_000_000.0
	MaxProductStock = 100_000
	MaxOrderTotal   = 100_000.0
)

// band is one interval of a field's value space. The first matching band wins.
type band[V any] struct {
	code     string
	severity Severity
	match    func(V) bool
	message  string
}

// fieldRule evaluates bands against a single field of every record.
// field returns ok=false for records that have no value to check.
func fieldRule[T, V any](
	id RuleID,
	description string,
	kind entity.Kind,
	severity Severity,
	records func(*entity.Snapshot) []T,
	field func(T) (id int64, value V, ok bool),
	bands ...band[V],
) Rule {
	return Rule{
		ID:          id,
		Category:    CategoryRange,
		Description: description,
		Reads:       []entity.Kind{kind},
		Severity:    severity,
		Policy:      CriticalPolicy(),
		eval: func(snap *entity.Snapshot, _ time.Time) Findings {
			list := records(snap)
			var out []Violation
			for _, r := range list {
				rid, value, ok := field(r)
				if !ok {
					continue
				}
				for _, b := range bands {
					if !b.match(value) {
						continue
					}
					v := Violation{
						Severity:   b.severity,
						Code:       b.code,
						Entity:     kind,
						SubjectIDs: []int64{rid},
						Message:    fmt.Sprintf("%s %d: %s (%v)", kind, rid, b.message, value),
					}
					if n, isNum := asFloat(value); isNum {
						v.Evidence = map[string]float64{EvidenceValue: n}
					} else {
						v.Values = []string{fmt.Sprint(value)}
					}
					out = append(out, v)
					break
				}
			}
			return Findings{Violations: out, Scanned: len(list)}
		},
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func nonFinite(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

func userAgeRule() Rule {
	return fieldRule(RuleUserAge, "user age must be within 0..120",
		entity.KindUser, SeverityCritical,
		(*entity.Snapshot).Users,
		func(u entity.User) (int64, int, bool) {
			if u.Age == nil {
				return u.ID, 0, false
			}
			return u.ID, *u.Age, true
		},
		band[int]{"age_out_of_range", SeverityCritical,
			func(a int) bool { return a < 0 || a > MaxUserAge }, "age outside 0..120"},
		band[int]{"minor_account", SeverityWarning,
			func(a int) bool { return a <= MinorAgeLimit }, "account holder is 12 or younger"},
	)
}

func productPriceRule() Rule {
	return fieldRule(RuleProductPrice, "product price must be within 0..1,000,000",
		entity.KindProduct, SeverityCritical,
		(*entity.Snapshot).Products,
		func(p entity.Product) (int64, float64, bool) { return p.ID, p.Price, true },
		band[float64]{"non_finite_price", SeverityCritical, nonFinite, "price is not a finite number"},
		band[float64]{"negative_price", SeverityCritical,
			func(p float64) bool { return p < 0 }, "negative price"},
		band[float64]{"price_too_high", SeverityCritical,
			func(p float64) bool { return p > MaxProductPrice }, "price above 1,000,000"},
		band[float64]{"zero_price", SeverityWarning,
			func(p float64) bool { return p == 0 }, "zero price"},
	)
}

func productStockRule() Rule {
	return fieldRule(RuleProductStock, "product stock must be within 0..100,000",
		entity.KindProduct, SeverityCritical,
		(*entity.Snapshot).Products,
		func(p entity.Product) (int64, int, bool) { return p.ID, p.Stock, true },
		band[int]{"negative_stock", SeverityCritical,
			func(s int) bool { return s < 0 }, "negative stock"},
		band[int]{"stock_over_capacity", SeverityCritical,
			func(s int) bool { return s > MaxProductStock }, "stock above 100,000"},
		band[int]{"out_of_stock", SeverityWarning,
			func(s int) bool { return s == 0 }, "out of stock"},
	)
}

func orderTotalRule() Rule {
	return fieldRule(RuleOrderTotal, "order total must be within (0, 100,000]",
		entity.KindOrder, SeverityCritical,
		(*entity.Snapshot).Orders,
		func(o entity.Order) (int64, float64, bool) { return o.ID, o.TotalAmount, true },
		band[float64]{"non_finite_total", SeverityCritical, nonFinite, "total is not a finite number"},
		band[float64]{"non_positive_total", SeverityCritical,
			func(t float64) bool { return t <= 0 }, "total must be positive"},
		band[float64]{"total_over_limit", SeverityCritical,
			func(t float64) bool { return t > MaxOrderTotal }, "total above 100,000"},
	)
}

func orderStatusRule() Rule {
	return fieldRule(RuleOrderStatus, "order status must be pending, completed or cancelled",
		entity.KindOrder, SeverityCritical,
		(*entity.Snapshot).Orders,
		func(o entity.Order) (int64, entity.OrderStatus, bool) { return o.ID, o.Status, true },
		band[entity.OrderStatus]{"invalid_status", SeverityCritical,
			func(s entity.OrderStatus) bool { return !s.Valid() }, "unknown order status"},
	)
}

func itemQuantityRule() Rule {
	return fieldRule(RuleItemQuantity, "order item quantity must be positive",
		entity.KindOrderItem, SeverityCritical,
		(*entity.Snapshot).OrderItems,
		func(i entity.OrderItem) (int64, int, bool) { return i.ID, i.Quantity, true },
		band[int]{"non_positive_quantity", SeverityCritical,
			func(q int) bool { return q <= 0 }, "quantity must be positive"},
	)
}
