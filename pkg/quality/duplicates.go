package quality

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/dataguard/pkg/entity"
)

// groupBy buckets records by key, preserving input order inside each group.
func groupBy[T any](records []T, key func(T) string) (map[string][]T, []string) {
	groups := make(map[string][]T)
	var keys []string
	for _, r := range records {
		k := key(r)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}
	return groups, keys
}

func normalizeEmail(email string) string {
	return strings.ToLower(email)
}

func duplicateEmailsRule() Rule {
	return Rule{
		ID:          RuleDuplicateEmails,
		Category:    CategoryDuplicate,
		Description: "user emails must be unique ignoring case",
		Reads:       []entity.Kind{entity.KindUser},
		Severity:    SeverityCritical,
		Policy:      CriticalPolicy(),
		eval: func(snap *entity.Snapshot, _ time.Time) Findings {
			users := snap.Users()
			groups, keys := groupBy(users, func(u entity.User) string { return normalizeEmail(u.Email) })

			var out []Violation
			for _, k := range keys {
				members := groups[k]
				if len(members) < 2 {
					continue
				}
				v := Violation{
					Severity: SeverityCritical,
					Code:     "duplicate_email",
					Entity:   entity.KindUser,
					Message:  fmt.Sprintf("email %q is used by %d accounts", k, len(members)),
					Evidence: map[string]float64{EvidenceCount: float64(len(members))},
				}
				for _, u := range members {
					v.SubjectIDs = append(v.SubjectIDs, u.ID)
					v.Values = append(v.Values, u.Email)
				}
				out = append(out, v)
			}
			return Findings{Violations: out, Scanned: len(users)}
		},
	}
}

func duplicateSKUsRule() Rule {
	return Rule{
		ID:          RuleDuplicateSKUs,
		Category:    CategoryDuplicate,
		Description: "product SKUs must be unique",
		Reads:       []entity.Kind{entity.KindProduct},
		Severity:    SeverityCritical,
		Policy:      CriticalPolicy(),
		eval: func(snap *entity.Snapshot, _ time.Time) Findings {
			products := snap.Products()
			groups, keys := groupBy(products, func(p entity.Product) string { return p.SKU })

			var out []Violation
			for _, k := range keys {
				members := groups[k]
				if len(members) < 2 {
					continue
				}
				v := Violation{
					Severity: SeverityCritical,
					Code:     "duplicate_sku",
					Entity:   entity.KindProduct,
					Message:  fmt.Sprintf("SKU %q is assigned to %d products", k, len(members)),
					Evidence: map[string]float64{EvidenceCount: float64(len(members))},
				}
				for _, p := range members {
					v.SubjectIDs = append(v.SubjectIDs, p.ID)
					v.Values = append(v.Values, p.Name)
				}
				out = append(out, v)
			}
			return Findings{Violations: out, Scanned: len(products)}
		},
	}
}

// Shared names are common among real people, so this rule is informational.
func duplicateNamesRule() Rule {
	return Rule{
		ID:          RuleDuplicateNames,
		Category:    CategoryDuplicate,
		Description: "identical user names (may be legitimate)",
		Reads:       []entity.Kind{entity.KindUser},
		Severity:    SeverityWarning,
		Policy:      AdvisoryPolicy(),
		eval: func(snap *entity.Snapshot, _ time.Time) Findings {
			users := snap.Users()
			groups, keys := groupBy(users, func(u entity.User) string { return u.Name })

			var out []Violation
			for _, k := range keys {
				members := groups[k]
				if len(members) < 2 {
					continue
				}
				v := Violation{
					Severity: SeverityWarning,
					Code:     "duplicate_name",
					Entity:   entity.KindUser,
					Message:  fmt.Sprintf("name %q appears %d times", k, len(members)),
					Values:   []string{k},
					Evidence: map[string]float64{EvidenceCount: float64(len(members))},
				}
				for _, u := range members {
					v.SubjectIDs = append(v.SubjectIDs, u.ID)
				}
				out = append(out, v)
			}
			return Findings{Violations: out, Scanned: len(users)}
		},
	}
}

// duplicateOrdersRule compares only neighbours in (user_id, created_at) order.
// A duplicate separated from its twin by another order of the same user
// inside the window is not reported.
func duplicateOrdersRule(window time.Duration) Rule {
	return Rule{
		ID:          RuleDuplicateOrders,
		Category:    CategoryDuplicate,
		Description: fmt.Sprintf("same user and amount placed less than %s apart", window),
		Reads:       []entity.Kind{entity.KindOrder},
		Severity:    SeverityWarning,
		Policy:      AdvisoryPolicy(),
		eval: func(snap *entity.Snapshot, _ time.Time) Findings {
			orders := snap.Orders()
			slices.SortStableFunc(orders, func(a, b entity.Order) int {
				if c := cmp.Compare(a.UserID, b.UserID); c != 0 {
					return c
				}
				if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
					return c
				}
				return cmp.Compare(a.ID, b.ID)
			})

			var out []Violation
			for i := 0; i+1 < len(orders); i++ {
				a, b := orders[i], orders[i+1]
				if a.UserID != b.UserID || a.TotalAmount != b.TotalAmount {
					continue
				}
				gap := b.CreatedAt.Sub(a.CreatedAt)
				if gap < 0 {
					gap = -gap
				}
				if gap >= window {
					continue
				}
				out = append(out, Violation{
					Severity:   SeverityWarning,
					Code:       "near_duplicate_order",
					Entity:     entity.KindOrder,
					SubjectIDs: []int64{a.ID, b.ID},
					Message: fmt.Sprintf("orders %d and %d: user %d, %.2f, %.1fs apart",
						a.ID, b.ID, a.UserID, a.TotalAmount, gap.Seconds()),
				}.withEvidence(map[string]float64{
					EvidenceValue:        a.TotalAmount,
					EvidenceSecondsApart: math.Round(gap.Seconds()*1000) / 1000,
				}))
			}
			return Findings{Violations: out, Scanned: len(orders)}
		},
	}
}
