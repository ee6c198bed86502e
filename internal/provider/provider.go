// Package provider defines the fetch contracts the aggregator consumes and
// the partial dataset each integration returns. Every dataset type has an
// Empty constructor; the aggregator substitutes it when a fetch fails so the
// merge engine never sees a raised provider failure.
package provider

import (
	"context"

	"github.com/sells-group/abm-reporter/internal/model"
)

// Salesforce fetches CRM accounts, contact counts, and opportunity rollups.
type Salesforce interface {
	Fetch(ctx context.Context, dr model.DateRange) (SalesforceData, error)
}

// HubSpot fetches marketing-automation companies, contact counts, forms,
// and form submissions.
type HubSpot interface {
	Fetch(ctx context.Context, dr model.DateRange) (HubSpotData, error)
}

// LinkedIn fetches organization-level organic and ad engagement.
type LinkedIn interface {
	Fetch(ctx context.Context, dr model.DateRange) (LinkedInData, error)
}

// Factors fetches website session analytics keyed by company domain.
type Factors interface {
	Fetch(ctx context.Context, dr model.DateRange) (FactorsData, error)
}

// CRMAccount is one Salesforce account as consumed by the merge engine.
type CRMAccount struct {
	ID            string
	Name          string
	Website       string
	Industry      string
	EmployeeCount int
	AnnualRevenue float64
}

// OpportunitySummary is the per-account opportunity rollup. PipelineValue
// sums amounts of open-stage opportunities only; closed won/lost are counts.
type OpportunitySummary struct {
	OpenOpps      int
	ClosedWon     int
	ClosedLost    int
	PipelineValue float64
}

// SalesforceData is the CRM partial dataset.
type SalesforceData struct {
	Accounts      []CRMAccount
	ContactCounts map[string]int                // account ID -> contact count
	Opportunities map[string]OpportunitySummary // account ID -> rollup
}

// EmptySalesforceData is the documented empty default for a failed CRM fetch.
func EmptySalesforceData() SalesforceData {
	return SalesforceData{
		ContactCounts: map[string]int{},
		Opportunities: map[string]OpportunitySummary{},
	}
}

// Company is one HubSpot company record.
type Company struct {
	ID            string
	Name          string
	Domain        string
	Industry      string
	EmployeeCount int
	AnnualRevenue float64
}

// Form identifies a marketing form.
type Form struct {
	ID   string
	Name string
}

// HubSpotData is the marketing-automation partial dataset.
type HubSpotData struct {
	Companies       []Company
	ContactCounts   map[string]int // company ID -> contact count
	Forms           []Form
	FormSubmissions []model.FormSubmission
}

// EmptyHubSpotData is the documented empty default for a failed HubSpot fetch.
func EmptyHubSpotData() HubSpotData {
	return HubSpotData{ContactCounts: map[string]int{}}
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

// LinkedInData is the social/ad partial dataset. Both series are fetched at
// organization level (the reporter's own page and ad account), not per
// tracked company.
type LinkedInData struct {
	OrganicStats []ShareStat
	AdAnalytics  []AdStat
}

// EmptyLinkedInData is the documented empty default for a failed LinkedIn fetch.
func EmptyLinkedInData() LinkedInData {
	return LinkedInData{}
}

// FactorsData is the website-analytics partial dataset.
type FactorsData struct {
	Sessions map[string]model.WebsiteMetrics // domain -> metrics
}

// EmptyFactorsData is the documented empty default for a failed Factors fetch.
func EmptyFactorsData() FactorsData {
	return FactorsData{Sessions: map[string]model.WebsiteMetrics{}}
}
