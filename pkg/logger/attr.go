package logger

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Error records err under "error". A nil error yields an empty Attr, which
// slog drops, so callers need no nil check.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RunID records the validation run id. The zero UUID yields an empty Attr.
func RunID(id uuid.UUID) slog.Attr {
	if id == uuid.Nil {
		return slog.Attr{}
	}
	return slog.String("run_id", id.String())
}

func Rule(id string) slog.Attr { return slog.String("rule", id) }

// Status records a run or rule verdict.
func Status(status string) slog.Attr { return slog.String("status", status) }

func Violations(n int) slog.Attr { return slog.Int("violations", n) }

func Count(n int) slog.Attr { return slog.Int("count", n) }

// Probe records a constraint probe name.
func Probe(name string) slog.Attr { return slog.String("probe", name) }

// Sink records a report delivery target.
func Sink(name string) slog.Attr { return slog.String("sink", name) }

func RequestID(id string) slog.Attr { return slog.String("request_id", id) }

func Duration(d time.Duration) slog.Attr { return slog.Duration("duration", d) }

func Component(name string) slog.Attr { return slog.String("component", name) }
