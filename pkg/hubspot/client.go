// Package hubspot provides a client for the HubSpot CRM and marketing APIs.
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the HubSpot API operations used for account reporting.
type Client interface {
	// Companies fetches all CRM companies, following pagination.
	Companies(ctx context.Context) ([]Company, error)
	// ContactCountsByCompany returns contact counts keyed by company ID.
	ContactCountsByCompany(ctx context.Context) (map[string]int, error)
	// Forms returns all marketing forms.
	Forms(ctx context.Context) ([]Form, error)
	// FormSubmissions returns submissions for a form, filtered to those at
	// or after since when since is non-zero.
	FormSubmissions(ctx context.Context, formID string, since time.Time) ([]Submission, error)
}

// Company is a CRM company record with its reporting properties.
type Company struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// Name returns the company name property.
func (c Company) Name() string { return c.Properties["name"] }

// Domain returns the company domain property.
func (c Company) Domain() string { return c.Properties["domain"] }

// Form is a marketing form.
type Form struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Submission is a single form submission.
type Submission struct {
	ConversionID string
	FormID       string
	SubmittedAt  time.Time
	Email        string
	PageURL      string
}

// Option configures the HubSpot client.
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
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a new HubSpot client authenticated with a private app token.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: "https://api.hubapi.com",
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
// transient failures (429, 500, 502, 503). Returns the response body and
// status code on success, or the last error after exhausting retries.
func (c *httpClient) retryDo(ctx context.Context, req *http.Request) ([]byte, int, error) {
	const maxAttempts = 3
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		retryReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, 0, eris.Wrap(err, "hubspot: clone request body")
			}
			retryReq.Body = body
		}

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
			return nil, resp.StatusCode, eris.Wrap(readErr, "hubspot: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < maxAttempts {
			lastErr = eris.Errorf("hubspot: status %d: %s", resp.StatusCode, string(body))
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
		return nil, eris.Wrap(err, "hubspot: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "hubspot: request failed")
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("hubspot: unexpected status %d: %s", statusCode, string(body))
	}
	return body, nil
}

func (c *httpClient) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "hubspot: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrap(err, "hubspot: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "hubspot: request failed")
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("hubspot: unexpected status %d: %s", statusCode, string(body))
	}
	return body, nil
}

// paging is the shared cursor envelope on list responses.
type paging struct {
	Next struct {
		After string `json:"after"`
	} `json:"next"`
}

// companyProperties are the properties requested on company fetches.
const companyProperties = "name,domain,industry,numberofemployees,annualrevenue,city,country"

func (c *httpClient) Companies(ctx context.Context) ([]Company, error) {
	var companies []Company
	after := ""

	for {
		query := url.Values{
			"limit":      {"100"},
			"properties": {companyProperties},
		}
		if after != "" {
			query.Set("after", after)
		}

		body, err := c.get(ctx, "/crm/v3/objects/companies", query)
		if err != nil {
			return nil, eris.Wrap(err, "hubspot: fetch companies")
		}

		var page struct {
			Results []Company `json:"results"`
			Paging  paging    `json:"paging"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, eris.Wrap(err, "hubspot: unmarshal companies")
		}

		companies = append(companies, page.Results...)
		after = page.Paging.Next.After
		if after == "" {
			break
		}
	}

	return companies, nil
}

func (c *httpClient) ContactCountsByCompany(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	after := ""

	for {
		search := map[string]any{
			"filterGroups": []any{},
			"properties":   []string{"email", "associatedcompanyid"},
			"limit":        100,
		}
		if after != "" {
			search["after"] = after
		}

		body, err := c.postJSON(ctx, "/crm/v3/objects/contacts/search", search)
		if err != nil {
			return nil, eris.Wrap(err, "hubspot: search contacts")
		}

		var page struct {
			Results []struct {
				Properties map[string]string `json:"properties"`
			} `json:"results"`
			Paging paging `json:"paging"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, eris.Wrap(err, "hubspot: unmarshal contacts")
		}

		for _, contact := range page.Results {
			if companyID := contact.Properties["associatedcompanyid"]; companyID != "" {
				counts[companyID]++
			}
		}

		after = page.Paging.Next.After
		if after == "" || len(page.Results) < 100 {
			break
		}
	}

	return counts, nil
}

func (c *httpClient) Forms(ctx context.Context) ([]Form, error) {
	body, err := c.get(ctx, "/marketing/v3/forms", nil)
	if err != nil {
		return nil, eris.Wrap(err, "hubspot: fetch forms")
	}

	var page struct {
		Results []Form `json:"results"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, eris.Wrap(err, "hubspot: unmarshal forms")
	}
	return page.Results, nil
}

func (c *httpClient) FormSubmissions(ctx context.Context, formID string, since time.Time) ([]Submission, error) {
	path := "/form-integrations/v1/submissions/forms"
	if formID != "" {
		path = fmt.Sprintf("%s/%s", path, url.PathEscape(formID))
	}

	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, eris.Wrap(err, "hubspot: fetch form submissions")
	}

	var page struct {
		Results []struct {
			ConversionID string `json:"conversionId"`
			FormID       string `json:"formId"`
			SubmittedAt  int64  `json:"submittedAt"`
			PageURL      string `json:"pageUrl"`
			Values       []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"values"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, eris.Wrap(err, "hubspot: unmarshal form submissions")
	}

	var submissions []Submission
	for _, record := range page.Results {
		submittedAt := time.UnixMilli(record.SubmittedAt).UTC()
		if !since.IsZero() && submittedAt.Before(since) {
			continue
		}

		email := ""
		for _, field := range record.Values {
			if field.Name == "email" {
				email = field.Value
				break
			}
		}

		submissions = append(submissions, Submission{
			ConversionID: record.ConversionID,
			FormID:       record.FormID,
			SubmittedAt:  submittedAt,
			Email:        email,
			PageURL:      record.PageURL,
		})
	}

	return submissions, nil
}
