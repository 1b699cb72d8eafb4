package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/dataguard/pkg/logger"
	"github.com/dmitrymomot/dataguard/pkg/pg"
)

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DefaultTimeout bounds each probe transaction unless WithTimeout says otherwise.
const DefaultTimeout = 10 * time.Second

// Prober runs probes against a store.
type Prober struct {
	db      TxBeginner
	log     *slog.Logger
	timeout time.Duration
}

// Option configures a Prober.
type Option func(*Prober)

func WithLogger(l *slog.Logger) Option {
	return func(p *Prober) {
		if l != nil {
			p.log = l
		}
	}
}

// WithTimeout bounds each probe. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) { p.timeout = d }
}

func NewProber(db TxBeginner, opts ...Option) *Prober {
	p := &Prober{
		db:      db,
		log:     slog.New(slog.DiscardHandler),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the probes sequentially and stops at the first hard error.
// Results for the probes that completed are returned alongside the error.
func (p *Prober) Run(ctx context.Context, probes ...Probe) (Results, error) {
	results := make(Results, 0, len(probes))
	for _, pr := range probes {
		res, err := p.RunOne(ctx, pr)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// RunOne executes a single probe inside a transaction that is always rolled back.
func (p *Prober) RunOne(ctx context.Context, pr Probe) (Result, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	log := p.log.With(logger.Probe(pr.Name))

	start := time.Now()
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return Result{}, errors.Join(ErrStoreUnavailable, fmt.Errorf("probe %s: begin: %w", pr.Name, err))
	}
	defer func() {
		// Rollback after a failed statement is expected; ErrTxClosed only means
		// the transaction is already gone.
		if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.WarnContext(ctx, "probe rollback failed", logger.Error(err))
		}
	}()

	if _, err := tx.Exec(ctx, "SET CONSTRAINTS ALL IMMEDIATE"); err != nil {
		return Result{}, errors.Join(ErrStoreUnavailable, fmt.Errorf("probe %s: set constraints: %w", pr.Name, err))
	}

	res := Result{Probe: pr.Name, Constraint: pr.Constraint}
	exerciseErr := pr.Exercise(ctx, tx)
	res.Duration = time.Since(start)

	if err := classify(&res, exerciseErr); err != nil {
		return Result{}, fmt.Errorf("probe %s: %w", pr.Name, err)
	}

	level := slog.LevelDebug
	if !res.Passed() {
		level = slog.LevelWarn
	}
	log.Log(ctx, level, "constraint probe finished",
		slog.String("outcome", string(res.Outcome)),
		slog.String("sqlstate", res.SQLState),
	)
	return res, nil
}

func classify(res *Result, err error) error {
	if err == nil {
		res.Outcome = NotEnforced
		res.Detail = "store accepted a mutation that violates the constraint"
		return nil
	}

	var preserved *Preserved
	if errors.As(err, &preserved) {
		res.Outcome = Enforced
		res.Expected = true
		res.Detail = preserved.Reason
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if !pg.IsIntegrityViolation(pgErr) {
			return errors.Join(ErrProbeBroken, err)
		}
		res.Outcome = Enforced
		res.SQLState = pgErr.Code
		res.Expected = res.Constraint.Expects(pgErr.Code)
		res.Detail = pgErr.Message
		if pgErr.ConstraintName != "" {
			res.Detail = pgErr.ConstraintName + ": " + pgErr.Message
		}
		return nil
	}

	return errors.Join(ErrStoreUnavailable, err)
}
