package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/abm-reporter/internal/model"
	"github.com/sells-group/abm-reporter/pkg/factors"
)

// factorsProvider adapts the Factors.ai client to the fetch contract.
type factorsProvider struct {
	client factors.Client
}

// NewFactors wraps a Factors.ai client as a provider.
func NewFactors(client factors.Client) Factors {
	return &factorsProvider{client: client}
}

func (p *factorsProvider) Fetch(ctx context.Context, dr model.DateRange) (FactorsData, error) {
	sessions, err := p.client.AccountSessions(ctx, dr.Start, dr.End)
	if err != nil {
		return FactorsData{}, eris.Wrap(err, "provider: factors account sessions")
	}

	data := FactorsData{Sessions: make(map[string]model.WebsiteMetrics, len(sessions))}
	for domain, m := range sessions {
		data.Sessions[domain] = model.WebsiteMetrics{
			Sessions:           m.Sessions,
			PageViews:          m.PageViews,
			AvgSessionDuration: m.AvgDuration,
			BounceRate:         m.BounceRate,
			UniqueVisitors:     m.UniqueVisitors,
		}
	}
	return data, nil
}
