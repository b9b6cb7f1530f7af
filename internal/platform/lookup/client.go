// Package lookup wraps the external address autocomplete service. The
// service takes free text and returns a single formatted address string;
// everything else about it is opaque to this system.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Resolver resolves free-text input to a formatted postal address.
type Resolver interface {
	FormattedAddress(ctx context.Context, query string) (string, error)
}

// Client calls the external address lookup API over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

type lookupResponse struct {
	FormattedAddress string `json:"formatted_address"`
}

// FormattedAddress queries the lookup service. An empty query or an
// unconfigured client yields an empty address, not an error: the caller
// defaults the address field and the save goes ahead regardless.
func (c *Client) FormattedAddress(ctx context.Context, query string) (string, error) {
	if c.baseURL == "" || query == "" {
		return "", nil
	}

	u, err := url.Parse(c.baseURL + "/v1/lookup")
	if err != nil {
		return "", fmt.Errorf("parse lookup url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build lookup request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("address lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("address lookup: unexpected status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode lookup response: %w", err)
	}
	return body.FormattedAddress, nil
}
