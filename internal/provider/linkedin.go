package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/abm-reporter/internal/model"
	"github.com/sells-group/abm-reporter/pkg/linkedin"
)

// linkedinProvider adapts the LinkedIn client to the fetch contract.
type linkedinProvider struct {
	client linkedin.Client
}

// NewLinkedIn wraps a LinkedIn client as a provider.
func NewLinkedIn(client linkedin.Client) LinkedIn {
	return &linkedinProvider{client: client}
}

func (p *linkedinProvider) Fetch(ctx context.Context, dr model.DateRange) (LinkedInData, error) {
	organic, err := p.client.ShareStatistics(ctx, dr.Start, dr.End)
	if err != nil {
		return LinkedInData{}, eris.Wrap(err, "provider: linkedin share statistics")
	}

	ads, err := p.client.AdAnalytics(ctx, dr.Start, dr.End)
	if err != nil {
		return LinkedInData{}, eris.Wrap(err, "provider: linkedin ad analytics")
	}

	data := LinkedInData{
		OrganicStats: make([]ShareStat, 0, len(organic)),
		AdAnalytics:  make([]AdStat, 0, len(ads)),
	}
	for _, s := range organic {
		data.OrganicStats = append(data.OrganicStats, ShareStat{
			Impressions: s.Impressions,
			Clicks:      s.Clicks,
			Engagement:  s.Engagement,
		})
	}
	for _, s := range ads {
		data.AdAnalytics = append(data.AdAnalytics, AdStat{
			Impressions: s.Impressions,
			Clicks:      s.Clicks,
			Spend:       s.Spend,
		})
	}
	return data, nil
}
