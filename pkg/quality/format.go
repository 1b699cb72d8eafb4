package quality

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrymomot/dataguard/pkg/entity"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// emailCheck is one independent test of the email format rule.
type emailCheck struct {
	code    string
	message string
	failed  func(email string) bool
}

var emailChecks = []emailCheck{
	{
		code:    "malformed_at",
		message: "must contain exactly one @ between a non-empty local part and domain",
		failed:  func(e string) bool { return !hasSingleAt(e) },
	},
	{
		// Only meaningful once the address splits cleanly.
		code:    "domain_missing_dot",
		message: "domain must contain a dot",
		failed: func(e string) bool {
			if !hasSingleAt(e) {
				return false
			}
			_, domain, _ := strings.Cut(e, "@")
			return !strings.Contains(domain, ".")
		},
	},
	{
		code:    "whitespace",
		message: "must not contain whitespace",
		failed:  func(e string) bool { return strings.IndexFunc(e, unicode.IsSpace) >= 0 },
	},
	{
		code:    "pattern_mismatch",
		message: "does not match local-part@domain.tld",
		failed:  func(e string) bool { return !emailPattern.MatchString(e) },
	},
}

func hasSingleAt(email string) bool {
	parts := strings.Split(email, "@")
	return len(parts) == 2 && parts[0] != "" && parts[1] != ""
}

// emailFormatRule may emit several violations for the same user, one per failed check.
func emailFormatRule() Rule {
	return Rule{
		ID:          RuleEmailFormat,
		Category:    CategoryFormat,
		Description: "user emails must be well formed",
		Reads:       []entity.Kind{entity.KindUser},
		Severity:    SeverityCritical,
		Policy:      CriticalPolicy(),
		eval: func(snap *entity.Snapshot, _ time.Time) Findings {
			users := snap.Users()
			var out []Violation
			for _, u := range users {
				for _, c := range emailChecks {
					if !c.failed(u.Email) {
						continue
					}
					out = append(out, Violation{
						Severity:   SeverityCritical,
						Code:       c.code,
						Entity:     entity.KindUser,
						SubjectIDs: []int64{u.ID},
						Message:    fmt.Sprintf("email %q %s", u.Email, c.message),
						Values:     []string{u.Email},
					})
				}
			}
			return Findings{Violations: out, Scanned: len(users)}
		},
	}
}

func suspiciousEmailsRule(patterns []suspiciousPattern, threshold float64) Rule {
	return Rule{
		ID:          RuleSuspiciousEmails,
		Category:    CategoryFormat,
		Description: fmt.Sprintf("test or disposable emails; fails above %.0f%% of users", threshold*100),
		Reads:       []entity.Kind{entity.KindUser},
		Severity:    SeverityWarning,
		Policy:      ThresholdPolicy(threshold),
		eval: func(snap *entity.Snapshot, _ time.Time) Findings {
			users := snap.Users()
			var out []Violation
			for _, u := range users {
				email := normalizeEmail(u.Email)
				for _, p := range patterns {
					if !p.re.MatchString(email) {
						continue
					}
					out = append(out, Violation{
						Severity:   SeverityWarning,
						Code:       "suspicious_email",
						Entity:     entity.KindUser,
						SubjectIDs: []int64{u.ID},
						Message:    fmt.Sprintf("email %q matches suspicious pattern %q", u.Email, p.source),
						Values:     []string{u.Email, p.source},
					})
					break
				}
			}
			return Findings{Violations: out, Scanned: len(users)}
		},
	}
}

// emailCaseConsistencyRule reports case drift on a key that must be unique.
func emailCaseConsistencyRule() Rule {
	return Rule{
		ID:          RuleEmailCaseConsistency,
		Category:    CategoryFormat,
		Description: "one email must not be stored with different letter cases",
		Reads:       []entity.Kind{entity.KindUser},
		Severity:    SeverityCritical,
		Policy:      CriticalPolicy(),
		eval: func(snap *entity.Snapshot, _ time.Time) Findings {
			users := snap.Users()
			groups, keys := groupBy(users, func(u entity.User) string { return normalizeEmail(u.Email) })

			var out []Violation
			for _, k := range keys {
				members := groups[k]
				var spellings []string
				for _, u := range members {
					if !slices.Contains(spellings, u.Email) {
						spellings = append(spellings, u.Email)
					}
				}
				if len(spellings) < 2 {
					continue
				}
				slices.Sort(spellings)
				v := Violation{
					Severity: SeverityCritical,
					Code:     "email_case_drift",
					Entity:   entity.KindUser,
					Message:  fmt.Sprintf("email %q stored in %d spellings", k, len(spellings)),
					Values:   spellings,
					Evidence: map[string]float64{EvidenceCount: float64(len(spellings))},
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
