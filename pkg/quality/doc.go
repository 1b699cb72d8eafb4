// Package quality implements the data-quality rule catalog and the runner
// that evaluates it against an entity snapshot.
//
// Every rule is a pure function of a snapshot and the run's reference time.
// Rules never fail on malformed data: malformed data is what they report, as
// Violations. Each rule carries a Policy that turns its findings into a
// verdict:
//
//   - CriticalPolicy fails when any critical violation is present.
//   - AdvisoryPolicy never fails; findings are surfaced as warnings.
//   - ThresholdPolicy fails when a critical violation is present or when the
//     fraction of flagged records exceeds the threshold.
//
// # Usage
//
//	catalog := quality.NewCatalog(quality.WithDuplicateOrderWindow(time.Minute))
//	rules, err := catalog.Select(quality.RuleDuplicateEmails, quality.RuleOrderTotals)
//	if err != nil {
//		return err
//	}
//	report, err := quality.NewRunner(rules).Run(ctx, snap)
//	if err != nil {
//		return err
//	}
//	if !report.Passed() {
//		// report.Failed() lists the failing rules
//	}
//
// # Configuration
//
// Thresholds can be loaded from the environment through Config:
//
//	DQ_DUPLICATE_ORDER_WINDOW=60s
//	DQ_SUSPICIOUS_EMAIL_THRESHOLD=0.1
//	DQ_TOTAL_TOLERANCE=0.01
//	DQ_SUSPICIOUS_PATTERNS="test@test;@mailinator"
//	DQ_RULES=duplicate_emails,order_totals
//
// The near-duplicate order rule compares only orders that are adjacent in
// (user_id, created_at) order. It is a heuristic and does not guarantee that
// every pair inside the window is found.
package quality
