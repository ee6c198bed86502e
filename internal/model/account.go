package model

import (
	"strings"
	"time"
)

// CanonicalAccount is the merged, account-level view of one company across
// all integrated sources. The canonical key is the lowercased account name;
// domains act as the secondary join key for sources that have no name field.
type CanonicalAccount struct {
	AccountName string   `json:"account_name"`
	Domains     []string `json:"domains"`

	// Contact metrics
	SFDCContacts    int `json:"sfdc_contacts"`
	HubSpotContacts int `json:"hubspot_contacts"`
	TotalContacts   int `json:"total_contacts"`

	// LinkedIn metrics
	LinkedInOrganicImpressions int `json:"linkedin_organic_impressions"`
	LinkedInAdImpressions      int `json:"linkedin_ad_impressions"`
	LinkedInTotalImpressions   int `json:"linkedin_total_impressions"`

	// Website metrics
	WebsiteSessions  int `json:"website_sessions"`
	WebsitePageViews int `json:"website_page_views"`

	FormSubmissions int `json:"form_submissions"`

	// Pipeline metrics
	CurrentOpportunities int     `json:"current_opportunities"`
	ClosedWon            int     `json:"closed_won"`
	ClosedLost           int     `json:"closed_lost"`
	OpenOpportunities    int     `json:"open_opportunities"`
	PipelineValue        float64 `json:"pipeline_value"`

	// Enrichment
	Industry      string   `json:"industry,omitempty"`
	EmployeeCount *int     `json:"employee_count,omitempty"`
	AnnualRevenue *float64 `json:"annual_revenue,omitempty"`

	// Intent signals (populated only when an intent source is integrated)
	IntentScore *int `json:"intent_score,omitempty"`

	LastUpdated time.Time `json:"last_updated"`
}

// HasDomain reports whether domain is a member of the account's domain set.
func (a *CanonicalAccount) HasDomain(domain string) bool {
	for _, d := range a.Domains {
		if strings.EqualFold(d, domain) {
			return true
		}
	}
	return false
}

// AddDomain appends domain to the set if not already present. The set only
// grows; insertion order is preserved for display.
func (a *CanonicalAccount) AddDomain(domain string) {
	if domain == "" || a.HasDomain(domain) {
		return
	}
	a.Domains = append(a.Domains, domain)
}

// OrgEngagement holds organization-level LinkedIn totals for one aggregation
// run. These are computed from the reporter's own page and ad account, not
// per tracked company, so they are reported alongside the account list
// rather than distributed onto individual accounts.
type OrgEngagement struct {
	OrganicImpressions int `json:"organic_impressions"`
	AdImpressions      int `json:"ad_impressions"`
	TotalImpressions   int `json:"total_impressions"`
}

// AccountList is the result of one aggregation run.
type AccountList struct {
	Accounts      []CanonicalAccount `json:"accounts"`
	TotalCount    int                `json:"total_count"`
	OrgEngagement OrgEngagement      `json:"org_engagement"`
	LastSynced    time.Time          `json:"last_synced"`
}

// WebsiteMetrics holds per-domain website analytics.
type WebsiteMetrics struct {
	Sessions           int     `json:"sessions"`
	PageViews          int     `json:"page_views"`
	AvgSessionDuration float64 `json:"avg_session_duration"`
	BounceRate         float64 `json:"bounce_rate"`
	UniqueVisitors     int     `json:"unique_visitors"`
}

// FormSubmission is a single marketing form submission.
type FormSubmission struct {
	ID           string    `json:"id"`
	FormName     string    `json:"form_name"`
	SubmittedAt  time.Time `json:"submitted_at"`
	ContactEmail string    `json:"contact_email,omitempty"`
	PageURL      string    `json:"page_url,omitempty"`
}

// DateRange bounds time-windowed provider metrics.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// OrDefault fills missing bounds: end defaults to now, start to 30 days
// before end.
func (r DateRange) OrDefault(now time.Time) DateRange {
	if r.End.IsZero() {
		r.End = now
	}
	if r.Start.IsZero() {
		r.Start = r.End.AddDate(0, 0, -30)
	}
	return r
}

// SummaryStats aggregates totals over the full (unfiltered) account set.
type SummaryStats struct {
	TotalAccounts                 int     `json:"total_accounts"`
	TotalPipeline                 float64 `json:"total_pipeline"`
	TotalContacts                 int     `json:"total_contacts"`
	TotalSFDCContacts             int     `json:"total_sfdc_contacts"`
	TotalHubSpotContacts          int     `json:"total_hubspot_contacts"`
	TotalWebsiteSessions          int     `json:"total_website_sessions"`
	TotalFormSubmissions          int     `json:"total_form_submissions"`
	OpenOpportunities             int     `json:"open_opportunities"`
	ClosedWonOpportunities        int     `json:"closed_won_opportunities"`
	ClosedLostOpportunities       int     `json:"closed_lost_opportunities"`
	AccountsWithOpenOpportunities int     `json:"accounts_with_open_opportunities"`
	AvgContactsPerAccount         float64 `json:"avg_contacts_per_account"`
}
