package linkedin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareStatistics_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organizationalEntityShareStatistics", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))
		assert.Empty(t, r.Header.Get("LinkedIn-Version"))

		q := r.URL.Query()
		assert.Equal(t, "organizationalEntity", q.Get("q"))
		assert.Equal(t, "urn:li:organization:12345", q.Get("organizationalEntity"))
		assert.Equal(t, "DAY", q.Get("timeIntervals.timeGranularityType"))
		assert.NotEmpty(t, q.Get("timeIntervals.timeRange.start"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"elements":[
			{"totalShareStatistics":{"impressionCount":1200,"clickCount":48,"engagement":0.041}},
			{"totalShareStatistics":{"impressionCount":900,"clickCount":30,"engagement":0.036}}
		]}`))
	}))
	defer srv.Close()

	client := NewClient("test-token", "12345", "678", WithBaseURL(srv.URL))
	end := time.Now()
	stats, err := client.ShareStatistics(context.Background(), end.AddDate(0, 0, -30), end)

	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 1200, stats[0].Impressions)
	assert.Equal(t, 48, stats[0].Clicks)
	assert.InDelta(t, 0.041, stats[0].Engagement, 1e-9)
}

func TestShareStatistics_MissingOrgID(t *testing.T) {
	t.Parallel()

	client := NewClient("test-token", "", "678")
	_, err := client.ShareStatistics(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "organization ID not configured")
}

func TestAdAnalytics_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/adAnalytics", r.URL.Path)
		assert.Equal(t, "202401", r.Header.Get("LinkedIn-Version"))

		q := r.URL.Query()
		assert.Equal(t, "analytics", q.Get("q"))
		assert.Equal(t, "CAMPAIGN", q.Get("pivot"))
		assert.Equal(t, "urn:li:sponsoredAccount:678", q.Get("accounts"))
		assert.Equal(t, "ALL", q.Get("timeGranularity"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"elements":[
			{"impressions":5000,"clicks":210,"costInLocalCurrency":"1543.27"},
			{"impressions":800,"clicks":12,"costInLocalCurrency":"99.50"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient("test-token", "12345", "678", WithRestBaseURL(srv.URL))
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	stats, err := client.AdAnalytics(context.Background(), end.AddDate(0, 0, -30), end)

	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 5000, stats[0].Impressions)
	assert.InDelta(t, 1543.27, stats[0].Spend, 1e-9)
}

func TestAdAnalytics_MissingAccountID(t *testing.T) {
	t.Parallel()

	client := NewClient("test-token", "12345", "")
	_, err := client.AdAnalytics(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ad account ID not configured")
}

func TestAdAnalytics_EmptySpend(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"elements":[{"impressions":100,"clicks":3,"costInLocalCurrency":""}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-token", "12345", "678", WithRestBaseURL(srv.URL))
	stats, err := client.AdAnalytics(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())

	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 0.0, stats[0].Spend)
}

func TestShareStatistics_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"insufficient permissions"}`))
	}))
	defer srv.Close()

	client := NewClient("test-token", "12345", "678", WithBaseURL(srv.URL))
	_, err := client.ShareStatistics(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient("my-token", "12345", "678")
	hc := c.(*httpClient)
	assert.Equal(t, "https://api.linkedin.com/v2", hc.baseURL)
	assert.Equal(t, "https://api.linkedin.com/rest", hc.restBaseURL)
	assert.Equal(t, "202401", hc.version)
	assert.Equal(t, 30*time.Second, hc.http.Timeout)
}
