package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/abm-reporter/internal/model"
)

// Disabled providers stand in for integrations with no credentials. Fetch
// always fails, so the aggregator substitutes the empty dataset and the
// merged output simply lacks that source's metrics.

type disabledSalesforce struct{ reason string }

func (d disabledSalesforce) Fetch(context.Context, model.DateRange) (SalesforceData, error) {
	return SalesforceData{}, eris.New("provider: " + d.reason)
}

// NewDisabledSalesforce returns a Salesforce provider that always fails
// with the given reason.
func NewDisabledSalesforce(reason string) Salesforce { return disabledSalesforce{reason} }

type disabledHubSpot struct{ reason string }

func (d disabledHubSpot) Fetch(context.Context, model.DateRange) (HubSpotData, error) {
	return HubSpotData{}, eris.New("provider: " + d.reason)
}

// NewDisabledHubSpot returns a HubSpot provider that always fails.
func NewDisabledHubSpot(reason string) HubSpot { return disabledHubSpot{reason} }

type disabledLinkedIn struct{ reason string }

func (d disabledLinkedIn) Fetch(context.Context, model.DateRange) (LinkedInData, error) {
	return LinkedInData{}, eris.New("provider: " + d.reason)
}

// NewDisabledLinkedIn returns a LinkedIn provider that always fails.
func NewDisabledLinkedIn(reason string) LinkedIn { return disabledLinkedIn{reason} }

type disabledFactors struct{ reason string }

func (d disabledFactors) Fetch(context.Context, model.DateRange) (FactorsData, error) {
	return FactorsData{}, eris.New("provider: " + d.reason)
}

// NewDisabledFactors returns a Factors provider that always fails.
func NewDisabledFactors(reason string) Factors { return disabledFactors{reason} }
