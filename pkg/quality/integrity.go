package quality

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/dataguard/pkg/entity"
)

// orphanRule builds a referential-integrity rule for one foreign key.
// Every child is checked against the set of parent ids; childless parents
// are never visited.
func orphanRule[T any](
	id RuleID,
	description string,
	child, parent entity.Kind,
	column string,
	children func(*entity.Snapshot) []T,
	keys func(T) (childID, foreignKey int64),
) Rule {
	return Rule{
		ID:          id,
		Category:    CategoryReferentialIntegrity,
		Description: description,
		Reads:       []entity.Kind{child, parent},
		Severity:    SeverityCritical,
		Policy:      CriticalPolicy(),
		eval: func(snap *entity.Snapshot, _ time.Time) Findings {
			parents := make(map[int64]struct{}, snap.Len(parent))
			for _, pid := range snap.IDs(parent) {
				parents[pid] = struct{}{}
			}

			records := children(snap)
			var out []Violation
			for _, r := range records {
				cid, fk := keys(r)
				if _, ok := parents[fk]; ok {
					continue
				}
				out = append(out, Violation{
					Severity:   SeverityCritical,
					Code:       "missing_" + string(parent),
					Entity:     child,
					SubjectIDs: []int64{cid},
					Message:    fmt.Sprintf("%s %d references missing %s %d via %s", child, cid, parent, fk, column),
					Evidence:   map[string]float64{EvidenceForeignKey: float64(fk)},
				})
			}
			return Findings{Violations: out, Scanned: len(records)}
		},
	}
}
