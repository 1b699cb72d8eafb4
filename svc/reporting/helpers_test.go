package reporting_test

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/dataguard/pkg/entity"
	"github.com/dmitrymomot/dataguard/pkg/quality"
)

var runID = uuid.MustParse("6f1c2a4e-8b1d-4c3e-9f2a-1b2c3d4e5f60")

var startedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func failedReport() *quality.Report {
	return &quality.Report{
		RunID:     runID,
		StartedAt: startedAt,
		Duration:  42 * time.Millisecond,
		Results: []quality.RuleResult{
			{
				Rule:     quality.RuleDuplicateEmails,
				Category: quality.CategoryDuplicate,
				Severity: quality.SeverityCritical,
				Policy:   quality.CriticalPolicy(),
				Status:   quality.StatusFailed,
				Scanned:  3,
				Flagged:  2,
				Critical: 1,
				Violations: []quality.Violation{{
					Rule:       quality.RuleDuplicateEmails,
					Category:   quality.CategoryDuplicate,
					Severity:   quality.SeverityCritical,
					Code:       "duplicate_email",
					Entity:     entity.KindUser,
					SubjectIDs: []int64{1, 2},
					Message:    "2 users share email a@example.com",
					Values:     []string{"a@example.com", "A@example.com"},
					Evidence:   map[string]float64{quality.EvidenceCount: 2},
				}},
			},
			{
				Rule:     quality.RuleProductPrice,
				Category: quality.CategoryRange,
				Severity: quality.SeverityCritical,
				Policy:   quality.CriticalPolicy(),
				Status:   quality.StatusWarned,
				Scanned:  2,
				Flagged:  1,
				Warnings: 1,
				Violations: []quality.Violation{{
					Rule:       quality.RuleProductPrice,
					Category:   quality.CategoryRange,
					Severity:   quality.SeverityWarning,
					Code:       "zero_price",
					Entity:     entity.KindProduct,
					SubjectIDs: []int64{7},
					Message:    "product price is zero",
					Evidence:   map[string]float64{quality.EvidenceValue: 0},
				}},
			},
			{
				Rule:       quality.RuleOrderStatus,
				Category:   quality.CategoryRange,
				Severity:   quality.SeverityCritical,
				Policy:     quality.CriticalPolicy(),
				Status:     quality.StatusPassed,
				Scanned:    4,
				Violations: []quality.Violation{},
			},
		},
		Summary: quality.Summary{
			Total: 3, Passed: 1, Warned: 1, Failed: 1, Critical: 1, Warnings: 1,
			Status: quality.StatusFailed,
		},
	}
}

func passedReport() *quality.Report {
	r := failedReport()
	r.Results = r.Results[2:]
	r.Summary = quality.Summary{Total: 1, Passed: 1, Status: quality.StatusPassed}
	return r
}

func warnedReport() *quality.Report {
	r := failedReport()
	r.Results = r.Results[1:]
	r.Summary = quality.Summary{Total: 2, Passed: 1, Warned: 1, Warnings: 1, Status: quality.StatusWarned}
	return r
}
