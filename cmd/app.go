package main

import (
	"os"
	"time"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/abm-reporter/internal/aggregate"
	"github.com/sells-group/abm-reporter/internal/provider"
	"github.com/sells-group/abm-reporter/pkg/factors"
	"github.com/sells-group/abm-reporter/pkg/hubspot"
	"github.com/sells-group/abm-reporter/pkg/linkedin"
	sfpkg "github.com/sells-group/abm-reporter/pkg/salesforce"
)

// newAggregator wires all configured integrations into an aggregator.
// Integrations without credentials become disabled providers; the aggregator
// degrades them to empty data instead of failing the run.
func newAggregator() (*aggregate.Aggregator, error) {
	sf := salesforceProvider()
	hs := hubspotProvider()
	li := linkedinProvider()
	fa := factorsProvider()

	ttl := time.Duration(cfg.Cache.TTLSecs) * time.Second
	return aggregate.New(sf, hs, li, fa, ttl), nil
}

func salesforceProvider() provider.Salesforce {
	if cfg.Salesforce.ClientID == "" || cfg.Salesforce.Username == "" {
		zap.L().Warn("salesforce not configured, CRM metrics disabled")
		return provider.NewDisabledSalesforce("salesforce credentials not configured")
	}

	client, err := initSalesforce()
	if err != nil {
		zap.L().Error("salesforce init failed, CRM metrics disabled", zap.Error(err))
		return provider.NewDisabledSalesforce("salesforce init failed")
	}
	return provider.NewSalesforce(client)
}

func initSalesforce() (sfpkg.Client, error) {
	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf, sfpkg.WithRateLimit(cfg.Salesforce.RateLimit)), nil
}

func hubspotProvider() provider.HubSpot {
	if cfg.HubSpot.Token == "" {
		zap.L().Warn("hubspot not configured, marketing metrics disabled")
		return provider.NewDisabledHubSpot("hubspot token not configured")
	}
	client := hubspot.NewClient(cfg.HubSpot.Token, hubspot.WithBaseURL(cfg.HubSpot.BaseURL))
	return provider.NewHubSpot(client)
}

func linkedinProvider() provider.LinkedIn {
	if cfg.LinkedIn.Token == "" {
		zap.L().Warn("linkedin not configured, social metrics disabled")
		return provider.NewDisabledLinkedIn("linkedin token not configured")
	}
	client := linkedin.NewClient(
		cfg.LinkedIn.Token,
		cfg.LinkedIn.OrganizationID,
		cfg.LinkedIn.AdAccountID,
		linkedin.WithBaseURL(cfg.LinkedIn.BaseURL),
		linkedin.WithRestBaseURL(cfg.LinkedIn.RestBaseURL),
		linkedin.WithVersion(cfg.LinkedIn.Version),
	)
	return provider.NewLinkedIn(client)
}

func factorsProvider() provider.Factors {
	if cfg.Factors.Key == "" {
		zap.L().Warn("factors not configured, website metrics disabled")
		return provider.NewDisabledFactors("factors API key not configured")
	}
	client := factors.NewClient(cfg.Factors.Key, cfg.Factors.ProjectID, factors.WithBaseURL(cfg.Factors.BaseURL))
	return provider.NewFactors(client)
}
