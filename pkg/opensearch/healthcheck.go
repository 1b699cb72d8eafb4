package opensearch

import (
	"context"
	"errors"
	"fmt"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Healthcheck returns a readiness check that calls the cluster info endpoint.
// Any opensearchapi.Transport works, *opensearch.Client included.
func Healthcheck(transport opensearchapi.Transport) func(context.Context) error {
	return func(ctx context.Context) error {
		resp, err := opensearchapi.InfoRequest{}.Do(ctx, transport)
		if err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		defer resp.Body.Close()
		if resp.IsError() {
			return errors.Join(ErrHealthcheckFailed, fmt.Errorf("status %d", resp.StatusCode))
		}
		return nil
	}
}
