package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ContentClient runs typed queries against the content source. A null
// result means "not found", not an error; callers get a nil document.
type ContentClient interface {
	Fetch(ctx context.Context, query string, params map[string]string) (json.RawMessage, error)
}

// HTTPContentClient queries the CMS data API over HTTP.
type HTTPContentClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPContentClient builds a client for a query endpoint such as
// https://<project>.api.sanity.io/v2024-01-01/data/query/<dataset>.
func NewHTTPContentClient(endpoint string, client *http.Client) *HTTPContentClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPContentClient{endpoint: endpoint, client: client}
}

func (c *HTTPContentClient) Fetch(ctx context.Context, query string, params map[string]string) (json.RawMessage, error) {
	values := url.Values{}
	values.Set("query", query)
	for name, value := range params {
		// Query params are injected as JSON string literals.
		values.Set("$"+name, strconv.Quote(value))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content fetch failed with status %d", resp.StatusCode)
	}

	var out struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode content response: %w", err)
	}

	if len(out.Result) == 0 || bytes.Equal(out.Result, []byte("null")) {
		return nil, nil
	}
	return out.Result, nil
}
