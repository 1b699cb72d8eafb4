package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/dataguard/pkg/config"
	"github.com/dmitrymomot/dataguard/pkg/email"
	"github.com/dmitrymomot/dataguard/pkg/httpserver"
	"github.com/dmitrymomot/dataguard/pkg/logger"
	"github.com/dmitrymomot/dataguard/pkg/mongo"
	"github.com/dmitrymomot/dataguard/pkg/opensearch"
	"github.com/dmitrymomot/dataguard/pkg/pg"
	"github.com/dmitrymomot/dataguard/pkg/redis"
	"github.com/dmitrymomot/dataguard/pkg/webhook"
	"github.com/dmitrymomot/dataguard/svc/reporting"
)

// reportsCollection holds one document per run in the configured Mongo database.
const reportsCollection = "validation_reports"

// sinkConfig gathers the configuration of every optional reporting backend.
// A backend takes part in delivery only when its Enabled method says so.
type sinkConfig struct {
	Redis      redis.Config
	RedisSink  reporting.RedisSinkConfig
	Mongo      mongo.Config
	OpenSearch opensearch.Config
	S3         reporting.S3Config
	Webhook    webhook.Config
	Email      email.Config
}

func loadSinkConfig() (sinkConfig, error) {
	var cfg sinkConfig
	if err := config.Load(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// deliveryStack is the fan-out of configured sinks plus the readiness checks
// and cleanup functions of the connections it opened.
type deliveryStack struct {
	fanout  *reporting.Fanout
	checks  []httpserver.Check
	closers []func(context.Context)
}

// Close releases connections in reverse order of opening.
func (d *deliveryStack) Close(ctx context.Context) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i](ctx)
	}
	d.closers = nil
}

// buildDelivery connects every enabled backend. A nil pool disables the
// Postgres sink. Connection failures abort startup after releasing what was
// already opened.
func buildDelivery(ctx context.Context, log *slog.Logger, pool *pgxpool.Pool, cfg sinkConfig) (*deliveryStack, error) {
	d := &deliveryStack{fanout: reporting.NewFanout(log)}
	fail := func(err error) (*deliveryStack, error) {
		d.Close(context.WithoutCancel(ctx))
		return nil, err
	}

	if pool != nil {
		d.fanout.Add("postgres", reporting.NewPGSink(pool))
		d.checks = append(d.checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})
	}

	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return fail(err)
		}
		d.closers = append(d.closers, func(context.Context) {
			if err := client.Close(); err != nil {
				log.Warn("redis close failed", logger.Error(err))
			}
		})
		d.fanout.Add("redis", reporting.NewRedisSink(client, cfg.RedisSink))
		d.checks = append(d.checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
	}

	if cfg.Mongo.Enabled() {
		db, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
		if err != nil {
			return fail(err)
		}
		d.closers = append(d.closers, func(ctx context.Context) {
			if err := db.Client().Disconnect(ctx); err != nil {
				log.Warn("mongo disconnect failed", logger.Error(err))
			}
		})
		d.fanout.Add("mongo", reporting.NewMongoSink(db.Collection(reportsCollection)))
		d.checks = append(d.checks, httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(db.Client())})
	}

	if cfg.OpenSearch.Enabled() {
		client, err := opensearch.New(ctx, cfg.OpenSearch)
		if err != nil {
			return fail(err)
		}
		d.fanout.Add("opensearch", reporting.NewOpenSearchSink(client, cfg.OpenSearch.Index))
		d.checks = append(d.checks, httpserver.Check{Name: "opensearch", Fn: opensearch.Healthcheck(client)})
	}

	if cfg.S3.Enabled() {
		client, err := reporting.NewS3Client(ctx, cfg.S3, nil)
		if err != nil {
			return fail(err)
		}
		d.fanout.Add("s3", reporting.NewS3Sink(client, cfg.S3))
	}

	if cfg.Webhook.Enabled() {
		sender, err := webhook.NewSender(cfg.Webhook, webhook.WithLogger(log))
		if err != nil {
			return fail(err)
		}
		d.fanout.Add("webhook", reporting.NewWebhookSink(sender, cfg.Webhook.OnlyFailures))
	}

	sender, err := newEmailSender(cfg.Email)
	if err != nil {
		return fail(err)
	}
	if sender != nil {
		d.fanout.Add("email", reporting.NewNotifier(sender, cfg.Email))
	} else if cfg.Email.Enabled() {
		log.Warn("notification recipients configured without postmark tokens or dev dir, emails disabled")
	}

	log.InfoContext(ctx, "report delivery configured", slog.Any("sinks", d.fanout.Names()))
	return d, nil
}

// newEmailSender prefers Postmark and falls back to the file-writing dev
// sender. It returns nil when notifications are not configured.
func newEmailSender(cfg email.Config) (email.EmailSender, error) {
	switch {
	case !cfg.Enabled():
		return nil, nil
	case cfg.UsePostmark():
		return email.NewPostmarkClient(cfg)
	case cfg.DevDir != "":
		return email.NewDevSender(cfg.DevDir, cfg.SenderEmail), nil
	default:
		return nil, nil
	}
}
