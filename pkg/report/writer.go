package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/dataguard/pkg/probe"
	"github.com/dmitrymomot/dataguard/pkg/quality"
)

// Writer encodes reports in one format.
type Writer struct {
	format Format
	out    io.Writer
	closer io.Closer
	p      *message.Printer
}

// NewWriter returns a Writer for out. A nil out writes to stdout.
func NewWriter(format Format, out io.Writer) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{format: format, out: out, p: message.NewPrinter(language.English)}
}

// NewFileWriter writes to path, or to stdout when path is empty or "-".
// Close must be called to release the file.
func NewFileWriter(format Format, path string) (*Writer, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		return NewWriter(format, os.Stdout), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("report: create %s: %w", path, err)
	}
	w := NewWriter(format, f)
	w.closer = f
	return w, nil
}

// Close releases the underlying file, if any.
func (w *Writer) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// Write encodes v. Text output understands *quality.Report, probe.Results
// and []quality.Rule; other values fall back to YAML.
func (w *Writer) Write(v any) error {
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("report: encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("report: encode yaml: %w", err)
		}
		return enc.Close()
	case FormatText:
		switch t := v.(type) {
		case *quality.Report:
			return w.textReport(t)
		case probe.Results:
			return w.textProbes(t)
		case []quality.Rule:
			return w.textRules(t)
		default:
			return NewWriter(FormatYAML, w.out).Write(v)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, w.format)
	}
}

func (w *Writer) textReport(r *quality.Report) error {
	p := w.p
	var b strings.Builder
	p.Fprintf(&b, "Run %s at %s (%s)\n\n", r.RunID, r.StartedAt.UTC().Format(time.RFC3339), r.Duration.Round(time.Microsecond))

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tCATEGORY\tPOLICY\tSTATUS\tSCANNED\tFLAGGED\tCRITICAL\tWARNINGS")
	for _, res := range r.Results {
		p.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			res.Rule, res.Category, res.Policy, strings.ToUpper(string(res.Status)),
			res.Scanned, res.Flagged, res.Critical, res.Warnings)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if vs := r.Violations(); len(vs) > 0 {
		b.WriteString("\nViolations:\n")
		for _, v := range vs {
			fmt.Fprintf(&b, "  [%s] %s %s %s: %s\n", v.Severity, v.Rule, v.Entity, joinIDs(v.SubjectIDs), v.Message)
		}
	}

	s := r.Summary
	p.Fprintf(&b, "\n%d rules: %d passed, %d warned, %d failed; %d critical, %d warnings. Result: %s\n",
		s.Total, s.Passed, s.Warned, s.Failed, s.Critical, s.Warnings, strings.ToUpper(string(s.Status)))

	_, err := io.WriteString(w.out, b.String())
	return err
}

func (w *Writer) textProbes(results probe.Results) error {
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROBE\tCONSTRAINT\tOUTCOME\tSQLSTATE\tDETAIL")
	for _, r := range results {
		state := r.SQLState
		if state == "" {
			state = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Probe, r.Constraint, strings.ToUpper(string(r.Outcome)), state, r.Detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	failed := len(results.Failed())
	_, err := w.p.Fprintf(w.out, "\n%d probes, %d not enforced\n", len(results), failed)
	return err
}

func (w *Writer) textRules(rules []quality.Rule) error {
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tCATEGORY\tSEVERITY\tPOLICY\tDESCRIPTION")
	for _, r := range rules {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Category, r.Severity, r.Policy, r.Description)
	}
	return tw.Flush()
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}
