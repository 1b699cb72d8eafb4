// Package redis connects to Redis with retries and exposes a health check.
//
//	cfg, _ := config.Load[redis.Config]()
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	ready := redis.Healthcheck(client)
//
// The returned *redis.Client backs the verdict cache of svc/reporting.
package redis
