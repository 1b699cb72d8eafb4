package quality

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/dataguard/pkg/entity"
)

type stamped struct {
	kind      entity.Kind
	id        int64
	createdAt time.Time
}

func timestamps(snap *entity.Snapshot) []stamped {
	out := make([]stamped, 0, snap.Len(entity.KindUser)+snap.Len(entity.KindProduct)+snap.Len(entity.KindOrder))
	for _, u := range snap.Users() {
		out = append(out, stamped{entity.KindUser, u.ID, u.CreatedAt})
	}
	for _, p := range snap.Products() {
		out = append(out, stamped{entity.KindProduct, p.ID, p.CreatedAt})
	}
	for _, o := range snap.Orders() {
		out = append(out, stamped{entity.KindOrder, o.ID, o.CreatedAt})
	}
	return out
}

func futureTimestampsRule() Rule {
	return Rule{
		ID:          RuleFutureTimestamps,
		Category:    CategoryTemporal,
		Description: "created_at must not be later than the run time",
		Reads:       []entity.Kind{entity.KindUser, entity.KindProduct, entity.KindOrder},
		Severity:    SeverityCritical,
		Policy:      CriticalPolicy(),
		eval: func(snap *entity.Snapshot, now time.Time) Findings {
			records := timestamps(snap)
			var out []Violation
			for _, r := range records {
				if !r.createdAt.After(now) {
					continue
				}
				ahead := r.createdAt.Sub(now)
				out = append(out, Violation{
					Severity:   SeverityCritical,
					Code:       "future_created_at",
					Entity:     r.kind,
					SubjectIDs: []int64{r.id},
					Message: fmt.Sprintf("%s %d created at %s, %s after the run started",
						r.kind, r.id, r.createdAt.UTC().Format(time.RFC3339), ahead.Round(time.Second)),
					Evidence: map[string]float64{EvidenceSecondsAhead: ahead.Seconds()},
				})
			}
			return Findings{Violations: out, Scanned: len(records)}
		},
	}
}
