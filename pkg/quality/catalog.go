package quality

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrymomot/dataguard/pkg/entity"
)

// Catalog is the fixed, ordered set of rules known to the engine.
type Catalog struct {
	rules []Rule
	byID  map[RuleID]int
}

// NewCatalog builds every rule with the given thresholds.
func NewCatalog(opts ...Option) *Catalog {
	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}

	rules := []Rule{
		// duplicates
		duplicateEmailsRule(),
		duplicateSKUsRule(),
		duplicateNamesRule(),
		duplicateOrdersRule(s.duplicateOrderWindow),
		// referential integrity
		orphanRule(RuleOrphanOrders, "orders must reference an existing user",
			entity.KindOrder, entity.KindUser, "user_id",
			(*entity.Snapshot).Orders,
			func(o entity.Order) (int64, int64) { return o.ID, o.UserID }),
		orphanRule(RuleOrphanOrderItems, "order items must reference an existing order",
			entity.KindOrderItem, entity.KindOrder, "order_id",
			(*entity.Snapshot).OrderItems,
			func(i entity.OrderItem) (int64, int64) { return i.ID, i.OrderID }),
		orphanRule(RuleOrphanItemProducts, "order items must reference an existing product",
			entity.KindOrderItem, entity.KindProduct, "product_id",
			(*entity.Snapshot).OrderItems,
			func(i entity.OrderItem) (int64, int64) { return i.ID, i.ProductID }),
		// ranges
		userAgeRule(),
		productPriceRule(),
		productStockRule(),
		orderTotalRule(),
		orderStatusRule(),
		itemQuantityRule(),
		// formats
		emailFormatRule(),
		suspiciousEmailsRule(s.suspiciousPatterns, s.suspiciousThreshold),
		emailCaseConsistencyRule(),
		// consistency
		orderTotalsRule(s.totalTolerance),
		itemPriceDriftRule(s.totalTolerance),
		// temporal
		futureTimestampsRule(),
	}

	c := &Catalog{rules: rules, byID: make(map[RuleID]int, len(rules))}
	for i, r := range rules {
		c.byID[r.ID] = i
	}
	return c
}

// Rules returns all rules in catalog order.
func (c *Catalog) Rules() []Rule {
	return slices.Clone(c.rules)
}

// Get returns the rule with the given id.
func (c *Catalog) Get(id RuleID) (Rule, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Rule{}, false
	}
	return c.rules[i], true
}

// Select returns the requested rules in catalog order. No ids selects every rule.
// Unknown ids are reported together in a single error wrapping ErrUnknownRule.
func (c *Catalog) Select(ids ...RuleID) ([]Rule, error) {
	if len(ids) == 0 {
		return c.Rules(), nil
	}

	var unknown []string
	want := make(map[RuleID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := c.byID[id]; !ok {
			unknown = append(unknown, string(id))
			continue
		}
		want[id] = struct{}{}
	}
	if len(unknown) > 0 {
		return nil, errors.Join(ErrUnknownRule, fmt.Errorf("unknown rule ids: %s", strings.Join(unknown, ", ")))
	}

	out := make([]Rule, 0, len(want))
	for _, r := range c.rules {
		if _, ok := want[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// ByCategory returns the rules of one category in catalog order.
func (c *Catalog) ByCategory(cat Category) []Rule {
	var out []Rule
	for _, r := range c.rules {
		if r.Category == cat {
			out = append(out, r)
		}
	}
	return out
}

// ParseRuleIDs converts raw names into rule ids, dropping blanks.
func ParseRuleIDs(names []string) []RuleID {
	var ids []RuleID
	for _, n := range names {
		for part := range strings.SplitSeq(n, ",") {
			if part = strings.TrimSpace(part); part != "" {
				ids = append(ids, RuleID(part))
			}
		}
	}
	return ids
}
