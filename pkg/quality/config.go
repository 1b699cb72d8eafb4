package quality

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// Default business thresholds. They have no derivation beyond operational
// experience and are therefore configurable.
const (
	DefaultDuplicateOrderWindow     = 60 * time.Second
	DefaultSuspiciousEmailThreshold = 0.10
	DefaultTotalTolerance           = 0.01
)

// DefaultSuspiciousPatterns are matched against lower-cased emails.
var DefaultSuspiciousPatterns = []string{
	`test@test`,
	`admin@admin`,
	`fake@`,
	`noreply@`,
	`@mailinator`,
	`@guerrillamail`,
	`@10minutemail`,
	`\d{5,}@`,
}

// Config holds the tunable thresholds of the catalog, loadable from environment.
type Config struct {
	DuplicateOrderWindow     time.Duration `env:"DQ_DUPLICATE_ORDER_WINDOW" envDefault:"60s"`       // DuplicateOrderWindow is the max gap between two orders considered near-duplicates.
	SuspiciousEmailThreshold float64       `env:"DQ_SUSPICIOUS_EMAIL_THRESHOLD" envDefault:"0.1"`   // SuspiciousEmailThreshold is the fraction of suspicious emails that fails the batch.
	TotalTolerance           float64       `env:"DQ_TOTAL_TOLERANCE" envDefault:"0.01"`             // TotalTolerance is the absolute tolerance for amount comparisons.
	SuspiciousPatterns       []string      `env:"DQ_SUSPICIOUS_PATTERNS" envSeparator:";"`          // SuspiciousPatterns overrides the default suspicious email patterns.
	Rules                    []string      `env:"DQ_RULES" envSeparator:","`                        // Rules restricts a run to the listed rule ids. Empty means all.
	Parallelism              int           `env:"DQ_PARALLELISM" envDefault:"0"`                    // Parallelism limits concurrent rule evaluation. Zero means unlimited.
}

// Validate reports out-of-range thresholds and patterns that do not compile.
func (c Config) Validate() error {
	var errs []error
	if c.DuplicateOrderWindow <= 0 {
		errs = append(errs, fmt.Errorf("DQ_DUPLICATE_ORDER_WINDOW: %v must be > 0", c.DuplicateOrderWindow))
	}
	if !(c.SuspiciousEmailThreshold >= 0 && c.SuspiciousEmailThreshold <= 1) {
		errs = append(errs, fmt.Errorf("DQ_SUSPICIOUS_EMAIL_THRESHOLD: %v is not a fraction in [0, 1]", c.SuspiciousEmailThreshold))
	}
	if !(c.TotalTolerance >= 0) || math.IsInf(c.TotalTolerance, 1) {
		errs = append(errs, fmt.Errorf("DQ_TOTAL_TOLERANCE: %v must be a finite number >= 0", c.TotalTolerance))
	}
	if _, err := compilePatterns(c.SuspiciousPatterns); err != nil {
		errs = append(errs, fmt.Errorf("DQ_SUSPICIOUS_PATTERNS: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Options validates the config and converts it into catalog options.
// Parsed values are passed through as is: zero is a valid threshold and
// tolerance, and defaults come from the envDefault tags.
func (c Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts := []Option{
		WithDuplicateOrderWindow(c.DuplicateOrderWindow),
		WithSuspiciousEmailThreshold(c.SuspiciousEmailThreshold),
		WithTotalTolerance(c.TotalTolerance),
	}
	if len(c.SuspiciousPatterns) > 0 {
		opts = append(opts, WithSuspiciousPatterns(c.SuspiciousPatterns...))
	}
	return opts, nil
}

// RuleIDs returns the configured rule selection.
func (c Config) RuleIDs() []RuleID {
	return ParseRuleIDs(c.Rules)
}

type suspiciousPattern struct {
	source string
	re     *regexp.Regexp
}

type settings struct {
	duplicateOrderWindow time.Duration
	suspiciousThreshold  float64
	totalTolerance       float64
	suspiciousPatterns   []suspiciousPattern
}

func defaultSettings() *settings {
	return &settings{
		duplicateOrderWindow: DefaultDuplicateOrderWindow,
		suspiciousThreshold:  DefaultSuspiciousEmailThreshold,
		totalTolerance:       DefaultTotalTolerance,
		suspiciousPatterns:   mustCompilePatterns(DefaultSuspiciousPatterns),
	}
}

// Option configures the rule catalog.
// Invalid values panic so that misconfiguration surfaces at startup.
type Option func(*settings)

func WithDuplicateOrderWindow(d time.Duration) Option {
	if d <= 0 {
		panic("WithDuplicateOrderWindow: duration must be > 0")
	}
	return func(s *settings) { s.duplicateOrderWindow = d }
}

func WithSuspiciousEmailThreshold(fraction float64) Option {
	if fraction < 0 || fraction > 1 {
		panic(fmt.Sprintf("WithSuspiciousEmailThreshold: %v is not a fraction in [0, 1]", fraction))
	}
	return func(s *settings) { s.suspiciousThreshold = fraction }
}

func WithTotalTolerance(tolerance float64) Option {
	if tolerance < 0 {
		panic("WithTotalTolerance: tolerance must be >= 0")
	}
	return func(s *settings) { s.totalTolerance = tolerance }
}

// WithSuspiciousPatterns replaces the suspicious email pattern list.
// Patterns are regular expressions matched against the lower-cased email.
func WithSuspiciousPatterns(patterns ...string) Option {
	compiled := mustCompilePatterns(patterns)
	return func(s *settings) { s.suspiciousPatterns = compiled }
}

func mustCompilePatterns(patterns []string) []suspiciousPattern {
	out, err := compilePatterns(patterns)
	if err != nil {
		panic("WithSuspiciousPatterns: " + err.Error())
	}
	return out
}

func compilePatterns(patterns []string) ([]suspiciousPattern, error) {
	out := make([]suspiciousPattern, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, suspiciousPattern{source: p, re: re})
	}
	return out, nil
}
