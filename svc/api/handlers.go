package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/dataguard/pkg/logger"
	"github.com/dmitrymomot/dataguard/pkg/probe"
	"github.com/dmitrymomot/dataguard/pkg/quality"
	"github.com/dmitrymomot/dataguard/pkg/report"
)

func (s *Server) listRules(w http.ResponseWriter, _ *http.Request) {
	rules := s.catalog.Rules()
	ok(w, rules, map[string]any{"total": len(rules)})
}

func (s *Server) getRule(w http.ResponseWriter, r *http.Request) {
	rule, found := s.catalog.Get(quality.RuleID(chi.URLParam(r, "id")))
	if !found {
		fail(w, ErrNotFound)
		return
	}
	ok(w, rule, nil)
}

// createRun validates a fresh snapshot.
// Query: rules=a,b (default all), format=json|yaml|text (default json).
func (s *Server) createRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	format := report.FormatJSON
	if name := q.Get("format"); name != "" {
		f, err := report.ParseFormat(name)
		if err != nil {
			fail(w, wrap(ErrUnknownFormat, err))
			return
		}
		format = f
	}

	rules, err := s.catalog.Select(quality.ParseRuleIDs(q["rules"])...)
	if err != nil {
		fail(w, wrap(ErrUnknownRule, err))
		return
	}

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "snapshot load failed", logger.Error(err))
		fail(w, wrap(ErrStoreUnavailable, err))
		return
	}

	rep, err := quality.NewRunner(rules, s.runnerOpts...).Run(ctx, snap)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			fail(w, wrap(ErrRunAborted, err))
			return
		}
		fail(w, wrap(ErrInternalServerError, err))
		return
	}

	meta := map[string]any{"status": rep.Summary.Status}
	if err := s.sink.Store(ctx, rep); err != nil {
		s.log.ErrorContext(ctx, "report delivery failed", logger.RunID(rep.RunID), logger.Error(err))
		meta["delivery_error"] = err.Error()
	}

	if format == report.FormatJSON {
		ok(w, rep, meta)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Run-Status", string(rep.Summary.Status))
	w.WriteHeader(http.StatusOK)
	if err := report.NewWriter(format, w).Write(rep); err != nil {
		s.log.ErrorContext(ctx, "report render failed", logger.RunID(rep.RunID), logger.Error(err))
	}
}

// runProbes executes the probe catalog, optionally filtered by ?probes=a,b.
func (s *Server) runProbes(w http.ResponseWriter, r *http.Request) {
	if s.prober == nil {
		fail(w, ErrNotImplemented)
		return
	}
	ctx := r.Context()

	selected, err := probe.Select(s.probes, r.URL.Query()["probes"]...)
	if err != nil {
		fail(w, wrap(ErrBadRequest, err))
		return
	}

	results, err := s.prober.Run(ctx, selected...)
	if err != nil {
		s.log.ErrorContext(ctx, "constraint probes aborted", logger.Error(err))
		if errors.Is(err, probe.ErrStoreUnavailable) {
			fail(w, wrap(ErrStoreUnavailable, err))
			return
		}
		fail(w, wrap(ErrInternalServerError, err))
		return
	}

	ok(w, results, map[string]any{
		"total":        len(results),
		"not_enforced": len(results.Failed()),
		"passed":       results.Passed(),
	})
}
