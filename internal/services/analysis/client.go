package analysis

import (
    "context"
    "fmt"
    "time"

    xhttp "github.com/Offshore-Miner/Crypto-Dash/pkg/http"
)

// serviceClient is the shared transport for the external signal service.
// It centralizes client construction and JSON POST request handling.
type serviceClient struct {
    baseURL string
    client  *xhttp.Client
}

func newServiceClient(baseURL string, timeout time.Duration) *serviceClient {
    if timeout <= 0 {
        timeout = 3 * time.Second
    }
    return &serviceClient{
        baseURL: baseURL,
        client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
    }
}

// PostJSON posts the given payload to `path` under baseURL and decodes JSON into dest.
func (c *serviceClient) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
    if c.client == nil || c.baseURL == "" {
        return fmt.Errorf("analysis http client not initialized")
    }
    err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
        Method: xhttp.MethodPost,
        URL:    c.baseURL + path,
        Headers: map[string]string{
            "Content-Type": "application/json",
        },
        Body: payload,
    }, dest)
    if err != nil {
        return fmt.Errorf("post %s: %w", path, err)
    }
    return nil
}

// PostJSONWithRetry posts JSON with up to `attempts` retries for transient errors.
func (c *serviceClient) PostJSONWithRetry(ctx context.Context, path string, payload interface{}, dest interface{}, attempts int) error {
    if attempts <= 1 {
        return c.PostJSON(ctx, path, payload, dest)
    }
    var err error
    for i := 1; i <= attempts; i++ {
        err = c.PostJSON(ctx, path, payload, dest)
        if err == nil {
            return nil
        }
        // simple backoff
        select {
        case <-time.After(time.Duration(i) * 50 * time.Millisecond):
        case <-ctx.Done():
            return ctx.Err()
        }
    }
    return err
}
