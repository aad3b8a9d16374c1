package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/text/language"
)

// Client fetches movie lists from a TMDB-compatible catalog API.
type Client struct {
	apiKey     string
	baseURL    string
	language   language.Tag
	httpClient *http.Client
}

// NewClient creates a catalog client. timeout is in seconds.
func NewClient(apiKey, baseURL string, lang language.Tag, timeout int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("catalog API key is required")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("catalog API URL is required")
	}

	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		language: lang,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}, nil
}

// FetchTopRated returns the first page of the top-rated movie list in
// the configured language, in the catalog's own ranking order.
func (c *Client) FetchTopRated(ctx context.Context) ([]Movie, error) {
	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("language", c.language.String())
	query.Set("page", "1")

	reqURL := c.baseURL + "/movie/top_rated?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog API error (status %d): %s", resp.StatusCode, string(body))
	}

	var listResp topRatedResponse
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return listResp.Results, nil
}
