package quality

import (
	"fmt"
	"math"
	"time"

	"github.com/dmitrymomot/dataguard/pkg/entity"
)

// epsilon absorbs binary rounding so that a difference of exactly the
// tolerance is accepted.
const epsilon = 1e-9

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func orderTotalsRule(tolerance float64) Rule {
	return Rule{
		ID:          RuleOrderTotals,
		Category:    CategoryConsistency,
		Description: fmt.Sprintf("order total must equal the sum of item subtotals within %.2f", tolerance),
		Reads:       []entity.Kind{entity.KindOrder, entity.KindOrderItem},
		Severity:    SeverityCritical,
		Policy:      CriticalPolicy(),
		eval: func(snap *entity.Snapshot, _ time.Time) Findings {
			orders := snap.Orders()
			var out []Violation
			for _, o := range orders {
				var computed float64
				for _, it := range snap.ItemsOf(o.ID) {
					computed += it.Subtotal()
				}
				diff := o.TotalAmount - computed
				if math.Abs(diff) <= tolerance+epsilon {
					continue
				}
				out = append(out, Violation{
					Severity:   SeverityCritical,
					Code:       "total_mismatch",
					Entity:     entity.KindOrder,
					SubjectIDs: []int64{o.ID},
					Message: fmt.Sprintf("order %d: stored total %.2f, items sum to %.2f (difference %.2f)",
						o.ID, o.TotalAmount, computed, diff),
				}.withEvidence(map[string]float64{
					EvidenceStored:     o.TotalAmount,
					EvidenceComputed:   round2(computed),
					EvidenceDifference: round2(diff),
				}))
			}
			return Findings{Violations: out, Scanned: len(orders)}
		},
	}
}

// itemPriceDriftRule compares the price captured on each order item with the
// product's current price. Prices legitimately change, so this is advisory.
func itemPriceDriftRule(tolerance float64) Rule {
	return Rule{
		ID:          RuleItemPriceDrift,
		Category:    CategoryConsistency,
		Description: "order item price differs from the current product price",
		Reads:       []entity.Kind{entity.KindOrderItem, entity.KindProduct},
		Severity:    SeverityWarning,
		Policy:      AdvisoryPolicy(),
		eval: func(snap *entity.Snapshot, _ time.Time) Findings {
			items := snap.OrderItems()
			var out []Violation
			for _, it := range items {
				p, ok := snap.Product(it.ProductID)
				if !ok {
					// orphan_item_products owns this case
					continue
				}
				diff := it.Price - p.Price
				if math.Abs(diff) <= tolerance+epsilon {
					continue
				}
				out = append(out, Violation{
					Severity:   SeverityWarning,
					Code:       "price_drift",
					Entity:     entity.KindOrderItem,
					SubjectIDs: []int64{it.ID},
					Message: fmt.Sprintf("order item %d: price %.2f, product %d now costs %.2f",
						it.ID, it.Price, p.ID, p.Price),
				}.withEvidence(map[string]float64{
					EvidenceStored:     it.Price,
					EvidenceComputed:   p.Price,
					EvidenceDifference: round2(diff),
				}))
			}
			return Findings{Violations: out, Scanned: len(items)}
		},
	}
}
