// Package factors provides a client for the Factors.ai website analytics API,
// which resolves anonymous B2B traffic to company domains.
package factors

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const dateLayout = "2006-01-02"

// Client defines the Factors.ai operations used for reporting.
type Client interface {
	// AccountSessions returns session metrics grouped by company domain
	// over the given window.
	AccountSessions(ctx context.Context, start, end time.Time) (map[string]SessionMetrics, error)
	// IntentSignals returns intent signals observed over the given window.
	IntentSignals(ctx context.Context, start, end time.Time) ([]IntentSignal, error)
}

// SessionMetrics are website engagement metrics for one identified company.
type SessionMetrics struct {
	Sessions       int     `json:"sessions"`
	PageViews      int     `json:"page_views"`
	AvgDuration    float64 `json:"avg_duration"`
	BounceRate     float64 `json:"bounce_rate"`
	UniqueVisitors int     `json:"unique_visitors"`
}

// IntentSignal is a scored buying signal for one company domain.
type IntentSignal struct {
	Domain string `json:"domain"`
	Score  int    `json:"score"`
	Signal string `json:"signal"`
}

// Option configures the Factors client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey    string
	projectID string
	baseURL   string
	http      *http.Client
}

// NewClient creates a Factors.ai client scoped to one project.
func NewClient(apiKey, projectID string, opts ...Option) Client {
	c := &httpClient{
		apiKey:    apiKey,
		projectID: projectID,
		baseURL:   "https://api.factors.ai/v1",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// retryableStatusCode returns true if the HTTP status code should trigger a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

// retryDo executes an HTTP request with exponential backoff retries on
// transient failures (429, 500, 502, 503).
func (c *httpClient) retryDo(ctx context.Context, req *http.Request) ([]byte, int, error) {
	const maxAttempts = 3
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		retryReq := req.Clone(ctx)

		resp, err := c.http.Do(retryReq)
		if err != nil {
			lastErr = err
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
				continue
			}
			return nil, 0, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, eris.Wrap(readErr, "factors: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < maxAttempts {
			lastErr = eris.Errorf("factors: status %d: %s", resp.StatusCode, string(body))
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, lastErr
}

func (c *httpClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "factors: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "factors: request failed")
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("factors: unexpected status %d: %s", statusCode, string(body))
	}
	return body, nil
}

func (c *httpClient) AccountSessions(ctx context.Context, start, end time.Time) (map[string]SessionMetrics, error) {
	query := url.Values{
		"start_date": {start.Format(dateLayout)},
		"end_date":   {end.Format(dateLayout)},
		"group_by":   {"domain"},
	}

	body, err := c.get(ctx, "/projects/"+url.PathEscape(c.projectID)+"/accounts/sessions", query)
	if err != nil {
		return nil, eris.Wrap(err, "factors: fetch account sessions")
	}

	var result struct {
		Accounts []struct {
			Domain string `json:"domain"`
			SessionMetrics
		} `json:"accounts"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "factors: unmarshal account sessions")
	}

	metrics := make(map[string]SessionMetrics, len(result.Accounts))
	for _, account := range result.Accounts {
		if account.Domain == "" {
			continue
		}
		metrics[account.Domain] = account.SessionMetrics
	}
	return metrics, nil
}

func (c *httpClient) IntentSignals(ctx context.Context, start, end time.Time) ([]IntentSignal, error) {
	query := url.Values{
		"start_date": {start.Format(dateLayout)},
		"end_date":   {end.Format(dateLayout)},
	}

	body, err := c.get(ctx, "/projects/"+url.PathEscape(c.projectID)+"/intent-signals", query)
	if err != nil {
		return nil, eris.Wrap(err, "factors: fetch intent signals")
	}

	var result struct {
		Signals []IntentSignal `json:"signals"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "factors: unmarshal intent signals")
	}
	return result.Signals, nil
}
