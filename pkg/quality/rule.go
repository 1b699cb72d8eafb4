package quality

import (
	"time"

	"github.com/dmitrymomot/dataguard/pkg/entity"
)

// RuleID identifies a rule in the catalog.
type RuleID string

const (
	RuleDuplicateEmails      RuleID = "duplicate_emails"
	RuleDuplicateSKUs        RuleID = "duplicate_skus"
	RuleDuplicateNames       RuleID = "duplicate_names"
	RuleDuplicateOrders      RuleID = "duplicate_orders"
	RuleOrphanOrders         RuleID = "orphan_orders"
	RuleOrphanOrderItems     RuleID = "orphan_order_items"
	RuleOrphanItemProducts   RuleID = "orphan_item_products"
	RuleUserAge              RuleID = "user_age"
	RuleProductPrice         RuleID = "product_price"
	RuleProductStock         RuleID = "product_stock"
	RuleOrderTotal           RuleID = "order_total"
	RuleOrderStatus          RuleID = "order_status"
	RuleItemQuantity         RuleID = "item_quantity"
	RuleEmailFormat          RuleID = "email_format"
	RuleSuspiciousEmails     RuleID = "suspicious_emails"
	RuleEmailCaseConsistency RuleID = "email_case_consistency"
	RuleOrderTotals          RuleID = "order_totals"
	RuleItemPriceDrift       RuleID = "item_price_drift"
	RuleFutureTimestamps     RuleID = "future_timestamps"
)

type evaluator func(snap *entity.Snapshot, now time.Time) Findings

// Rule is one entry of the fixed catalog. Rules are values: they hold no
// state between evaluations and never modify the snapshot.
type Rule struct {
	ID          RuleID        `json:"id" yaml:"id"`
	Category    Category      `json:"category" yaml:"category"`
	Description string        `json:"description" yaml:"description"`
	Reads       []entity.Kind `json:"reads" yaml:"reads"`
	Severity    Severity      `json:"severity" yaml:"severity"` // default severity of the rule's findings
	Policy      Policy        `json:"policy" yaml:"policy"`

	eval evaluator
}

// Evaluate runs the rule against snap. now is the reference time of the run.
// The returned violations are stamped with the rule id and category and
// sorted by subject.
func (r Rule) Evaluate(snap *entity.Snapshot, now time.Time) Findings {
	if snap == nil || r.eval == nil {
		return Findings{}
	}
	f := r.eval(snap, now)
	for i := range f.Violations {
		f.Violations[i].Rule = r.ID
		f.Violations[i].Category = r.Category
		if f.Violations[i].Severity == "" {
			f.Violations[i].Severity = r.Severity
		}
	}
	sortViolations(f.Violations)
	return f
}
