// Package fetch pulls raw performance data from the ad platforms and
// normalizes it into snapshot records. Endpoints are plain HTTP JSON shaped
// like the platform reporting APIs; authentication is a bearer token set by
// configuration.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

func getJSON(ctx context.Context, c HTTPClient, url, token string, v any) error {
	if url == "" {
		return errors.New("empty url")
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(b))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// GetJSONWithRetry retries transient failures with exponential backoff plus
// jitter. Non-2xx responses count as failures too; the last error wins.
func GetJSONWithRetry(ctx context.Context, c HTTPClient, url, token string, dst any) error {
	var lastErr error
	for i := 0; i < 3; i++ {
		lastErr = getJSON(ctx, c, url, token, dst)
		if lastErr == nil {
			return nil
		}
		sleep := time.Duration((1<<i)*100) * time.Millisecond
		sleep += time.Duration(rand.Intn(150)) * time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
	return lastErr
}

func max0(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

func maxf(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
