// Package opensearch wraps the official OpenSearch client with env-driven
// configuration, a startup health check and sentinel errors.
//
//	cfg, _ := config.Load[opensearch.Config]()
//	client, err := opensearch.New(ctx, cfg)
//	if errors.Is(err, opensearch.ErrHealthcheckFailed) {
//	    // cluster unreachable
//	}
//
// Healthcheck accepts any opensearchapi.Transport so it can be exercised with
// a fake transport in tests.
package opensearch
