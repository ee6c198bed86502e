package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/abm-reporter/internal/model"
	"github.com/sells-group/abm-reporter/pkg/salesforce"
)

// salesforceProvider adapts the Salesforce client to the fetch contract.
// A failure in any sub-fetch fails the provider as a whole; the aggregator
// substitutes the empty dataset.
type salesforceProvider struct {
	client salesforce.Client
}

// NewSalesforce wraps a Salesforce client as a provider.
func NewSalesforce(client salesforce.Client) Salesforce {
	return &salesforceProvider{client: client}
}

func (p *salesforceProvider) Fetch(ctx context.Context, _ model.DateRange) (SalesforceData, error) {
	accounts, err := salesforce.FetchAccounts(ctx, p.client)
	if err != nil {
		return SalesforceData{}, eris.Wrap(err, "provider: salesforce accounts")
	}

	contactCounts, err := salesforce.ContactCountsByAccount(ctx, p.client)
	if err != nil {
		return SalesforceData{}, eris.Wrap(err, "provider: salesforce contact counts")
	}

	opps, err := salesforce.OpportunitySummaryByAccount(ctx, p.client)
	if err != nil {
		return SalesforceData{}, eris.Wrap(err, "provider: salesforce opportunities")
	}

	data := SalesforceData{
		Accounts:      make([]CRMAccount, 0, len(accounts)),
		ContactCounts: contactCounts,
		Opportunities: make(map[string]OpportunitySummary, len(opps)),
	}
	for _, a := range accounts {
		data.Accounts = append(data.Accounts, CRMAccount{
			ID:            a.ID,
			Name:          a.Name,
			Website:       a.Website,
			Industry:      a.Industry,
			EmployeeCount: a.NumberOfEmployees,
			AnnualRevenue: a.AnnualRevenue,
		})
	}
	for id, s := range opps {
		data.Opportunities[id] = OpportunitySummary{
			OpenOpps:      s.OpenOpps,
			ClosedWon:     s.ClosedWon,
			ClosedLost:    s.ClosedLost,
			PipelineValue: s.PipelineValue,
		}
	}
	return data, nil
}
