package reporting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/dataguard/pkg/logger"
	"github.com/dmitrymomot/dataguard/pkg/quality"
)

// Sink receives finished reports.
type Sink interface {
	Store(ctx context.Context, r *quality.Report) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, r *quality.Report) error

func (f SinkFunc) Store(ctx context.Context, r *quality.Report) error { return f(ctx, r) }

// NopSink discards reports.
type NopSink struct{}

func (NopSink) Store(context.Context, *quality.Report) error { return nil }

type namedSink struct {
	name string
	sink Sink
}

// Fanout delivers a report to every registered sink.
type Fanout struct {
	sinks []namedSink
	log   *slog.Logger
}

// NewFanout returns an empty Fanout. A nil logger discards output.
func NewFanout(log *slog.Logger) *Fanout {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Fanout{log: log}
}

// Add registers a sink under name. Nil sinks are ignored.
func (f *Fanout) Add(name string, s Sink) *Fanout {
	if s != nil {
		f.sinks = append(f.sinks, namedSink{name: name, sink: s})
	}
	return f
}

// Names lists the registered sinks in registration order.
func (f *Fanout) Names() []string {
	names := make([]string, len(f.sinks))
	for i, s := range f.sinks {
		names[i] = s.name
	}
	return names
}

// Store delivers r to all sinks concurrently. Every sink is attempted;
// failures are joined under ErrDeliveryFailed.
func (f *Fanout) Store(ctx context.Context, r *quality.Report) error {
	if r == nil {
		return ErrNilReport
	}

	errs := make([]error, len(f.sinks))
	var wg sync.WaitGroup
	for i, s := range f.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := s.sink.Store(ctx, r)
			attrs := []any{logger.Sink(s.name), logger.RunID(r.RunID), logger.Duration(time.Since(start))}
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", s.name, err)
				f.log.ErrorContext(ctx, "report delivery failed", append(attrs, logger.Error(err))...)
				return
			}
			f.log.DebugContext(ctx, "report delivered", attrs...)
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}
	return nil
}
