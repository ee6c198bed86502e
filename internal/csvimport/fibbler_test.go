package csvimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/abm-reporter/internal/model"
)

func TestParseFibbler_GroupsByCompany(t *testing.T) {
	csv := `Company,Domain,LinkedIn_Impressions,LinkedIn_Engagements,LinkedIn_Clicks,Content_Type,Date
Acme Corp,acme.com,1200,80,15,post,2024-06-01
Acme Corp,acme.com,800,40,5,video,2024-06-08
Widgets Inc,widgets.io,300,12,2,post,2024-06-03
`
	records, err := ParseFibbler(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Acme Corp", records[0].AccountName)
	assert.Equal(t, "acme.com", records[0].Domain)
	assert.Equal(t, 2000, records[0].Impressions)
	assert.Equal(t, 120, records[0].Engagements)
	assert.Equal(t, 20, records[0].Clicks)

	assert.Equal(t, "Widgets Inc", records[1].AccountName)
	assert.Equal(t, 300, records[1].Impressions)
}

func TestParseFibbler_HeaderVariations(t *testing.T) {
	// Substring matching tolerates decorated headers.
	csv := `  company name , LinkedIn_Impressions (30d)
Acme Corp,1500
`
	records, err := ParseFibbler(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme Corp", records[0].AccountName)
	assert.Equal(t, 1500, records[0].Impressions)
}

func TestParseFibbler_FallsBackToDomain(t *testing.T) {
	csv := `Domain,LinkedIn_Impressions
acme.com,500
acme.com,250
`
	records, err := ParseFibbler(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "acme.com", records[0].AccountName)
	assert.Equal(t, 750, records[0].Impressions)
}

func TestParseFibbler_NoUsableColumns(t *testing.T) {
	csv := `Foo,Bar
1,2
`
	_, err := ParseFibbler(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no company or domain column")
}

func TestParseFibbler_MalformedNumbers(t *testing.T) {
	csv := `Company,LinkedIn_Impressions
Acme Corp,"1,200"
Acme Corp,n/a
`
	records, err := ParseFibbler(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1200, records[0].Impressions)
}

func TestParseLinkedInAds(t *testing.T) {
	csv := `Company name,Website,Impressions,Clicks,Engagement rate,Spend
Acme Corp,acme.com,"5,000",210,4.2%,"1,543.27"
Widgets Inc,widgets.io,800,12,1.5%,99.50
`
	records, err := ParseLinkedInAds(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Acme Corp", records[0].AccountName)
	assert.Equal(t, "acme.com", records[0].Domain)
	assert.Equal(t, 5000, records[0].Impressions)
	assert.Equal(t, 210, records[0].Clicks)
	assert.InDelta(t, 4.2, records[0].EngagementRate, 1e-9)
	assert.InDelta(t, 1543.27, records[0].Spend, 1e-9)
}

func TestParseLinkedInAds_MissingCompanyColumn(t *testing.T) {
	csv := `Website,Impressions
acme.com,100
`
	_, err := ParseLinkedInAds(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Company name")
}

func TestMergeFibbler_FillsGapsOnly(t *testing.T) {
	accounts := []model.CanonicalAccount{
		{AccountName: "Acme Corp", Domains: []string{"acme.com"}},
		{AccountName: "Widgets Inc", Domains: []string{"widgets.io"}, LinkedInOrganicImpressions: 999, LinkedInTotalImpressions: 999},
		{AccountName: "Untracked Co"},
	}
	records := []FibblerRecord{
		{AccountName: "ACME CORP", Impressions: 2000},
		{AccountName: "Widgets Inc", Impressions: 300},
	}

	merged := MergeFibbler(accounts, records)

	assert.Equal(t, 2000, merged[0].LinkedInOrganicImpressions)
	assert.Equal(t, 2000, merged[0].LinkedInTotalImpressions)
	// API-sourced value wins over the export.
	assert.Equal(t, 999, merged[1].LinkedInOrganicImpressions)
	assert.Equal(t, 0, merged[2].LinkedInOrganicImpressions)

	// Input untouched.
	assert.Equal(t, 0, accounts[0].LinkedInOrganicImpressions)
}

func TestMergeFibbler_MatchesByDomain(t *testing.T) {
	accounts := []model.CanonicalAccount{
		{AccountName: "Acme Corporation", Domains: []string{"acme.com", "acme.io"}},
	}
	records := []FibblerRecord{
		{AccountName: "acme", Domain: "acme.io", Impressions: 400},
	}

	merged := MergeFibbler(accounts, records)
	assert.Equal(t, 400, merged[0].LinkedInOrganicImpressions)
}

func TestMergeLinkedInAds(t *testing.T) {
	accounts := []model.CanonicalAccount{
		{AccountName: "Acme Corp", Domains: []string{"acme.com"}, LinkedInOrganicImpressions: 100, LinkedInTotalImpressions: 100},
	}
	records := []AdsRecord{
		{AccountName: "Acme Corp", Impressions: 5000, Spend: 1543.27},
	}

	merged := MergeLinkedInAds(accounts, records)
	assert.Equal(t, 5000, merged[0].LinkedInAdImpressions)
	assert.Equal(t, 5100, merged[0].LinkedInTotalImpressions)
}
