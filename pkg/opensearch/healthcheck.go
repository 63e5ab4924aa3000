package opensearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Healthcheck returns a function suitable for liveness/readiness probes.
// The returned function requests the cluster root ("/") and fails unless the
// node answers with 200.
func Healthcheck(client *Client) func(context.Context) error {
	return func(ctx context.Context) error {
		resp, err := client.Request(ctx, http.MethodGet, "/", nil, nil)
		if err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		if resp.StatusCode != http.StatusOK {
			return errors.Join(ErrHealthcheckFailed, fmt.Errorf("unexpected status %d", resp.StatusCode))
		}
		return nil
	}
}
