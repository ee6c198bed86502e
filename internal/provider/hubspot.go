package provider

import (
	"context"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/abm-reporter/internal/model"
	"github.com/sells-group/abm-reporter/pkg/hubspot"
)

// hubspotProvider adapts the HubSpot client to the fetch contract.
type hubspotProvider struct {
	client hubspot.Client
}

// NewHubSpot wraps a HubSpot client as a provider.
func NewHubSpot(client hubspot.Client) HubSpot {
	return &hubspotProvider{client: client}
}

func (p *hubspotProvider) Fetch(ctx context.Context, dr model.DateRange) (HubSpotData, error) {
	companies, err := p.client.Companies(ctx)
	if err != nil {
		return HubSpotData{}, eris.Wrap(err, "provider: hubspot companies")
	}

	contactCounts, err := p.client.ContactCountsByCompany(ctx)
	if err != nil {
		return HubSpotData{}, eris.Wrap(err, "provider: hubspot contact counts")
	}

	forms, err := p.client.Forms(ctx)
	if err != nil {
		return HubSpotData{}, eris.Wrap(err, "provider: hubspot forms")
	}

	submissions, err := p.client.FormSubmissions(ctx, "", dr.Start)
	if err != nil {
		return HubSpotData{}, eris.Wrap(err, "provider: hubspot form submissions")
	}

	formNames := make(map[string]string, len(forms))
	data := HubSpotData{
		Companies:     make([]Company, 0, len(companies)),
		ContactCounts: contactCounts,
		Forms:         make([]Form, 0, len(forms)),
	}
	for _, f := range forms {
		formNames[f.ID] = f.Name
		data.Forms = append(data.Forms, Form{ID: f.ID, Name: f.Name})
	}
	for _, co := range companies {
		data.Companies = append(data.Companies, Company{
			ID:            co.ID,
			Name:          co.Name(),
			Domain:        co.Domain(),
			Industry:      co.Properties["industry"],
			EmployeeCount: atoiLoose(co.Properties["numberofemployees"]),
			AnnualRevenue: atofLoose(co.Properties["annualrevenue"]),
		})
	}
	for _, s := range submissions {
		name := formNames[s.FormID]
		if name == "" {
			name = s.FormID
		}
		data.FormSubmissions = append(data.FormSubmissions, model.FormSubmission{
			ID:           s.ConversionID,
			FormName:     name,
			SubmittedAt:  s.SubmittedAt,
			ContactEmail: s.Email,
			PageURL:      s.PageURL,
		})
	}
	return data, nil
}

// atoiLoose parses a HubSpot numeric string property, treating blanks and
// malformed values as zero.
func atoiLoose(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func atofLoose(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
