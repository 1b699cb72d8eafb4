package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/dataguard/pkg/quality"
)

// RedisClient is the subset of redis.UniversalClient used by RedisSink.
type RedisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisSinkConfig controls key naming and retention of cached verdicts.
type RedisSinkConfig struct {
	KeyPrefix string        `env:"DQ_REDIS_KEY_PREFIX" envDefault:"dataguard"`
	Channel   string        `env:"DQ_REDIS_CHANNEL" envDefault:"dataguard:runs"`
	TTL       time.Duration `env:"DQ_REDIS_VERDICT_TTL" envDefault:"168h"`
}

// Verdict is the cached outcome of one rule.
type Verdict struct {
	RunID       uuid.UUID      `json:"run_id"`
	Rule        quality.RuleID `json:"rule"`
	Status      quality.Status `json:"status"`
	Scanned     int            `json:"scanned"`
	Flagged     int            `json:"flagged"`
	Critical    int            `json:"critical"`
	Warnings    int            `json:"warnings"`
	EvaluatedAt time.Time      `json:"evaluated_at"`
}

// RunSummary is the cached and published summary of a run.
type RunSummary struct {
	RunID     uuid.UUID        `json:"run_id"`
	StartedAt time.Time        `json:"started_at"`
	Summary   quality.Summary  `json:"summary"`
	Failed    []quality.RuleID `json:"failed,omitempty"`
}

// NewRunSummary condenses r to its summary and failed rule ids.
func NewRunSummary(r *quality.Report) RunSummary {
	summary := RunSummary{RunID: r.RunID, StartedAt: r.StartedAt, Summary: r.Summary}
	for _, res := range r.Failed() {
		summary.Failed = append(summary.Failed, res.Rule)
	}
	return summary
}

// RedisSink caches the latest verdict of each rule under
// "<prefix>:rule:<id>", the latest run under "<prefix>:latest",
// and publishes the run summary on the configured channel.
type RedisSink struct {
	client RedisClient
	cfg    RedisSinkConfig
}

func NewRedisSink(client RedisClient, cfg RedisSinkConfig) *RedisSink {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "dataguard"
	}
	return &RedisSink{client: client, cfg: cfg}
}

// RuleKey returns the cache key of a rule verdict.
func (s *RedisSink) RuleKey(id quality.RuleID) string {
	return s.cfg.KeyPrefix + ":rule:" + string(id)
}

// LatestKey returns the cache key of the latest run summary.
func (s *RedisSink) LatestKey() string {
	return s.cfg.KeyPrefix + ":latest"
}

func (s *RedisSink) Store(ctx context.Context, r *quality.Report) error {
	if r == nil {
		return ErrNilReport
	}

	for _, res := range r.Results {
		payload, err := json.Marshal(Verdict{
			RunID:       r.RunID,
			Rule:        res.Rule,
			Status:      res.Status,
			Scanned:     res.Scanned,
			Flagged:     res.Flagged,
			Critical:    res.Critical,
			Warnings:    res.Warnings,
			EvaluatedAt: r.StartedAt,
		})
		if err != nil {
			return errors.Join(ErrCacheVerdict, err)
		}
		if err := s.client.Set(ctx, s.RuleKey(res.Rule), payload, s.cfg.TTL).Err(); err != nil {
			return errors.Join(ErrCacheVerdict, err)
		}
	}

	payload, err := json.Marshal(NewRunSummary(r))
	if err != nil {
		return errors.Join(ErrCacheVerdict, err)
	}
	if err := s.client.Set(ctx, s.LatestKey(), payload, s.cfg.TTL).Err(); err != nil {
		return errors.Join(ErrCacheVerdict, err)
	}
	if s.cfg.Channel != "" {
		if err := s.client.Publish(ctx, s.cfg.Channel, payload).Err(); err != nil {
			return errors.Join(ErrCacheVerdict, err)
		}
	}
	return nil
}
