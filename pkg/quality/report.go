package quality

import (
	"time"

	"github.com/google/uuid"
)

// RuleResult is the verdict of one rule in a run.
type RuleResult struct {
	Rule       RuleID        `json:"rule" yaml:"rule"`
	Category   Category      `json:"category" yaml:"category"`
	Severity   Severity      `json:"severity" yaml:"severity"`
	Policy     Policy        `json:"policy" yaml:"policy"`
	Status     Status        `json:"status" yaml:"status"`
	Scanned    int           `json:"scanned" yaml:"scanned"`
	Flagged    int           `json:"flagged" yaml:"flagged"`
	Critical   int           `json:"critical" yaml:"critical"`
	Warnings   int           `json:"warnings" yaml:"warnings"`
	Violations []Violation   `json:"violations" yaml:"violations"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// Passed reports whether the rule did not fail. Warnings do not fail a rule.
func (r RuleResult) Passed() bool {
	return r.Status != StatusFailed
}

// Summary aggregates the rule verdicts of a run.
type Summary struct {
	Total    int    `json:"total" yaml:"total"`
	Passed   int    `json:"passed" yaml:"passed"`
	Warned   int    `json:"warned" yaml:"warned"`
	Failed   int    `json:"failed" yaml:"failed"`
	Critical int    `json:"critical" yaml:"critical"`
	Warnings int    `json:"warnings" yaml:"warnings"`
	Status   Status `json:"status" yaml:"status"`
}

// Report is the outcome of a validation run.
type Report struct {
	RunID     uuid.UUID     `json:"run_id" yaml:"run_id"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Results   []RuleResult  `json:"results" yaml:"results"`
	Summary   Summary       `json:"summary" yaml:"summary"`
}

func summarize(results []RuleResult) Summary {
	s := Summary{Total: len(results), Status: StatusPassed}
	for _, r := range results {
		switch r.Status {
		case StatusFailed:
			s.Failed++
		case StatusWarned:
			s.Warned++
		default:
			s.Passed++
		}
		s.Critical += r.Critical
		s.Warnings += r.Warnings
	}
	switch {
	case s.Failed > 0:
		s.Status = StatusFailed
	case s.Warned > 0:
		s.Status = StatusWarned
	}
	return s
}

// Passed reports whether no rule failed.
func (r *Report) Passed() bool {
	return r.Summary.Status != StatusFailed
}

// Result returns the verdict of a single rule.
func (r *Report) Result(id RuleID) (RuleResult, bool) {
	for _, res := range r.Results {
		if res.Rule == id {
			return res, true
		}
	}
	return RuleResult{}, false
}

// Violations returns every violation of the run in result order.
func (r *Report) Violations() []Violation {
	var out []Violation
	for _, res := range r.Results {
		out = append(out, res.Violations...)
	}
	return out
}

// Failed returns the results of the rules that failed.
func (r *Report) Failed() []RuleResult {
	var out []RuleResult
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}
