// Package linkedin provides a client for the LinkedIn Marketing APIs,
// covering organic page statistics (v2) and ad analytics (rest).
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the LinkedIn Marketing API operations used for reporting.
type Client interface {
	// ShareStatistics returns daily organic page statistics for the
	// configured organization over the given window.
	ShareStatistics(ctx context.Context, start, end time.Time) ([]ShareStat, error)
	// AdAnalytics returns campaign-pivoted ad analytics for the configured
	// ad account over the given window.
	AdAnalytics(ctx context.Context, start, end time.Time) ([]AdStat, error)
}

// ShareStat is one organic page statistics element.
type ShareStat struct {
	Impressions int
	Clicks      int
	Engagement  float64
}

// AdStat is one ad analytics element.
type AdStat struct {
	Impressions int
	Clicks      int
	Spend       float64
}

// Option configures the LinkedIn client.
type Option func(*httpClient)

// WithBaseURL sets a custom v2 API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithRestBaseURL sets a custom rest API base URL (for testing).
func WithRestBaseURL(url string) Option {
	return func(c *httpClient) {
		c.restBaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithVersion sets the LinkedIn-Version header sent on rest API calls.
func WithVersion(version string) Option {
	return func(c *httpClient) {
		c.version = version
	}
}

type httpClient struct {
	token       string
	orgID       string
	adAccountID string
	baseURL     string
	restBaseURL string
	version     string
	http        *http.Client
}

// NewClient creates a LinkedIn client for the given organization and ad account.
func NewClient(token, orgID, adAccountID string, opts ...Option) Client {
	c := &httpClient{
		token:       token,
		orgID:       orgID,
		adAccountID: adAccountID,
		baseURL:     "https://api.linkedin.com/v2",
		restBaseURL: "https://api.linkedin.com/rest",
		version:     "202401",
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
			return nil, resp.StatusCode, eris.Wrap(readErr, "linkedin: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < maxAttempts {
			lastErr = eris.Errorf("linkedin: status %d: %s", resp.StatusCode, string(body))
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

func (c *httpClient) get(ctx context.Context, base, path string, query url.Values, rest bool) ([]byte, error) {
	reqURL := base + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "linkedin: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	if rest {
		req.Header.Set("LinkedIn-Version", c.version)
	}

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "linkedin: request failed")
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("linkedin: unexpected status %d: %s", statusCode, string(body))
	}
	return body, nil
}

func (c *httpClient) ShareStatistics(ctx context.Context, start, end time.Time) ([]ShareStat, error) {
	if c.orgID == "" {
		return nil, eris.New("linkedin: organization ID not configured")
	}

	query := url.Values{
		"q":                    {"organizationalEntity"},
		"organizationalEntity": {"urn:li:organization:" + c.orgID},
		"timeIntervals.timeGranularityType": {"DAY"},
		"timeIntervals.timeRange.start":     {strconv.FormatInt(start.UnixMilli(), 10)},
		"timeIntervals.timeRange.end":       {strconv.FormatInt(end.UnixMilli(), 10)},
	}

	body, err := c.get(ctx, c.baseURL, "/organizationalEntityShareStatistics", query, false)
	if err != nil {
		return nil, eris.Wrap(err, "linkedin: fetch share statistics")
	}

	var result struct {
		Elements []struct {
			TotalShareStatistics struct {
				ImpressionCount int     `json:"impressionCount"`
				ClickCount      int     `json:"clickCount"`
				Engagement      float64 `json:"engagement"`
			} `json:"totalShareStatistics"`
		} `json:"elements"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "linkedin: unmarshal share statistics")
	}

	stats := make([]ShareStat, 0, len(result.Elements))
	for _, el := range result.Elements {
		stats = append(stats, ShareStat{
			Impressions: el.TotalShareStatistics.ImpressionCount,
			Clicks:      el.TotalShareStatistics.ClickCount,
			Engagement:  el.TotalShareStatistics.Engagement,
		})
	}
	return stats, nil
}

func (c *httpClient) AdAnalytics(ctx context.Context, start, end time.Time) ([]AdStat, error) {
	if c.adAccountID == "" {
		return nil, eris.New("linkedin: ad account ID not configured")
	}

	query := url.Values{
		"q":                     {"analytics"},
		"pivot":                 {"CAMPAIGN"},
		"dateRange.start.day":   {strconv.Itoa(start.Day())},
		"dateRange.start.month": {strconv.Itoa(int(start.Month()))},
		"dateRange.start.year":  {strconv.Itoa(start.Year())},
		"dateRange.end.day":     {strconv.Itoa(end.Day())},
		"dateRange.end.month":   {strconv.Itoa(int(end.Month()))},
		"dateRange.end.year":    {strconv.Itoa(end.Year())},
		"timeGranularity":       {"ALL"},
		"accounts":              {"urn:li:sponsoredAccount:" + c.adAccountID},
		"fields":                {"impressions,clicks,costInLocalCurrency,dateRange"},
	}

	body, err := c.get(ctx, c.restBaseURL, "/adAnalytics", query, true)
	if err != nil {
		return nil, eris.Wrap(err, "linkedin: fetch ad analytics")
	}

	var result struct {
		Elements []struct {
			Impressions         int    `json:"impressions"`
			Clicks              int    `json:"clicks"`
			CostInLocalCurrency string `json:"costInLocalCurrency"`
		} `json:"elements"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "linkedin: unmarshal ad analytics")
	}

	stats := make([]AdStat, 0, len(result.Elements))
	for _, el := range result.Elements {
		spend, err := strconv.ParseFloat(el.CostInLocalCurrency, 64)
		if err != nil && el.CostInLocalCurrency != "" {
			return nil, eris.Wrap(err, fmt.Sprintf("linkedin: parse spend %q", el.CostInLocalCurrency))
		}
		stats = append(stats, AdStat{
			Impressions: el.Impressions,
			Clicks:      el.Clicks,
			Spend:       spend,
		})
	}
	return stats, nil
}
