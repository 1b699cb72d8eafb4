package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dmitrymomot/dataguard/pkg/entity"
	"github.com/dmitrymomot/dataguard/pkg/quality"
)

// ViolationDocument is the indexed form of one violation.
type ViolationDocument struct {
	RunID      uuid.UUID          `json:"run_id"`
	Timestamp  time.Time          `json:"@timestamp"`
	Rule       quality.RuleID     `json:"rule"`
	Category   quality.Category   `json:"category"`
	Severity   quality.Severity   `json:"severity"`
	Code       string             `json:"code"`
	Entity     entity.Kind        `json:"entity"`
	SubjectIDs []int64            `json:"subject_ids"`
	Message    string             `json:"message"`
	Values     []string           `json:"values,omitempty"`
	Evidence   map[string]float64 `json:"evidence,omitempty"`
}

// OpenSearchSink bulk-indexes the violations of a run, one document each.
// Document ids are "<run id>-<ordinal>", so re-delivering a report overwrites
// instead of duplicating.
type OpenSearchSink struct {
	transport opensearchapi.Transport
	index     string
}

func NewOpenSearchSink(transport opensearchapi.Transport, index string) *OpenSearchSink {
	return &OpenSearchSink{transport: transport, index: index}
}

type bulkAction struct {
	Index struct {
		ID string `json:"_id"`
	} `json:"index"`
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

func (s *OpenSearchSink) Store(ctx context.Context, r *quality.Report) error {
	if r == nil {
		return ErrNilReport
	}
	violations := r.Violations()
	if len(violations) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for i, v := range violations {
		var action bulkAction
		action.Index.ID = r.RunID.String() + "-" + strconv.Itoa(i)
		if err := enc.Encode(action); err != nil {
			return errors.Join(ErrIndexReport, err)
		}
		if err := enc.Encode(ViolationDocument{
			RunID:      r.RunID,
			Timestamp:  r.StartedAt,
			Rule:       v.Rule,
			Category:   v.Category,
			Severity:   v.Severity,
			Code:       v.Code,
			Entity:     v.Entity,
			SubjectIDs: v.SubjectIDs,
			Message:    v.Message,
			Values:     v.Values,
			Evidence:   v.Evidence,
		}); err != nil {
			return errors.Join(ErrIndexReport, err)
		}
	}

	resp, err := opensearchapi.BulkRequest{Index: s.index, Body: &body}.Do(ctx, s.transport)
	if err != nil {
		return errors.Join(ErrIndexReport, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return errors.Join(ErrIndexReport, fmt.Errorf("bulk request returned status %d", resp.StatusCode))
	}

	var out bulkResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return errors.Join(ErrIndexReport, err)
	}
	if !out.Errors {
		return nil
	}
	failed := 0
	var first string
	for _, item := range out.Items {
		for _, res := range item {
			if res.Error != nil {
				if failed == 0 {
					first = res.Error.Type + ": " + res.Error.Reason
				}
				failed++
			}
		}
	}
	return errors.Join(ErrIndexReport, fmt.Errorf("%d of %d documents rejected, first: %s", failed, len(violations), first))
}
