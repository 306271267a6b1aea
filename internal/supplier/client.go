package supplier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client fetches raw payloads from supplier endpoints. Its contract is
// deliberately small: parsed JSON on 2xx, an error otherwise. Requests are
// rate-limited so a batch sync does not hammer a distributor's API.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a client allowing at most rps requests per second with a
// small burst.
func NewClient(timeout time.Duration, rps float64) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 2),
	}
}

// FetchItems GETs a supplier endpoint and decodes its JSON array of items.
func (c *Client) FetchItems(ctx context.Context, url string) ([]Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var items []Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return items, nil
}
