package reporting

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/dataguard/pkg/quality"
)

// DefaultMongoCollection holds one document per run.
const DefaultMongoCollection = "reports"

// MongoInserter is the subset of *mongo.Collection used by MongoSink.
type MongoInserter interface {
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
}

type ruleDocument struct {
	Rule       string              `bson:"rule"`
	Category   string              `bson:"category"`
	Policy     string              `bson:"policy"`
	Status     string              `bson:"status"`
	Scanned    int                 `bson:"scanned"`
	Flagged    int                 `bson:"flagged"`
	Critical   int                 `bson:"critical"`
	Warnings   int                 `bson:"warnings"`
	DurationMS int64               `bson:"duration_ms"`
	Violations []violationDocument `bson:"violations"`
}

type violationDocument struct {
	Severity   string             `bson:"severity"`
	Code       string             `bson:"code"`
	Entity     string             `bson:"entity"`
	SubjectIDs []int64            `bson:"subject_ids"`
	Message    string             `bson:"message"`
	Values     []string           `bson:"values,omitempty"`
	Evidence   map[string]float64 `bson:"evidence,omitempty"`
}

// ReportDocument is the stored form of a report. The run id is the document id.
type ReportDocument struct {
	ID         string         `bson:"_id"`
	StartedAt  time.Time      `bson:"started_at"`
	DurationMS int64          `bson:"duration_ms"`
	Status     string         `bson:"status"`
	Summary    summaryDoc     `bson:"summary"`
	Rules      []ruleDocument `bson:"rules"`
}

type summaryDoc struct {
	Total    int `bson:"total"`
	Passed   int `bson:"passed"`
	Warned   int `bson:"warned"`
	Failed   int `bson:"failed"`
	Critical int `bson:"critical"`
	Warnings int `bson:"warnings"`
}

// NewReportDocument converts r into its stored form.
func NewReportDocument(r *quality.Report) ReportDocument {
	doc := ReportDocument{
		ID:         r.RunID.String(),
		StartedAt:  r.StartedAt,
		DurationMS: r.Duration.Milliseconds(),
		Status:     string(r.Summary.Status),
		Summary: summaryDoc{
			Total:    r.Summary.Total,
			Passed:   r.Summary.Passed,
			Warned:   r.Summary.Warned,
			Failed:   r.Summary.Failed,
			Critical: r.Summary.Critical,
			Warnings: r.Summary.Warnings,
		},
		Rules: make([]ruleDocument, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		rd := ruleDocument{
			Rule:       string(res.Rule),
			Category:   string(res.Category),
			Policy:     res.Policy.String(),
			Status:     string(res.Status),
			Scanned:    res.Scanned,
			Flagged:    res.Flagged,
			Critical:   res.Critical,
			Warnings:   res.Warnings,
			DurationMS: res.Duration.Milliseconds(),
			Violations: make([]violationDocument, 0, len(res.Violations)),
		}
		for _, v := range res.Violations {
			rd.Violations = append(rd.Violations, violationDocument{
				Severity:   string(v.Severity),
				Code:       v.Code,
				Entity:     string(v.Entity),
				SubjectIDs: v.SubjectIDs,
				Message:    v.Message,
				Values:     v.Values,
				Evidence:   v.Evidence,
			})
		}
		doc.Rules = append(doc.Rules, rd)
	}
	return doc
}

// MongoSink stores each report as one document.
type MongoSink struct {
	coll MongoInserter
}

func NewMongoSink(coll MongoInserter) *MongoSink {
	return &MongoSink{coll: coll}
}

func (s *MongoSink) Store(ctx context.Context, r *quality.Report) error {
	if r == nil {
		return ErrNilReport
	}
	if _, err := s.coll.InsertOne(ctx, NewReportDocument(r)); err != nil {
		// Re-delivering the same run is a no-op.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return errors.Join(ErrStoreDocument, err)
	}
	return nil
}
