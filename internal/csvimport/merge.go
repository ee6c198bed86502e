package csvimport

import (
	"strings"

	"github.com/sells-group/abm-reporter/internal/model"
)

// MergeFibbler fills per-account LinkedIn engagement gaps from a Fibbler
// export. A record matches an account by name (case-insensitive) or by any
// owned domain. Only zero fields are filled; API-sourced values win.
func MergeFibbler(accounts []model.CanonicalAccount, records []FibblerRecord) []model.CanonicalAccount {
	byName := make(map[string]*FibblerRecord, len(records))
	byDomain := make(map[string]*FibblerRecord, len(records))
	for i := range records {
		rec := &records[i]
		if rec.AccountName != "" {
			byName[strings.ToLower(rec.AccountName)] = rec
		}
		if rec.Domain != "" {
			byDomain[strings.ToLower(rec.Domain)] = rec
		}
	}

	merged := make([]model.CanonicalAccount, len(accounts))
	copy(merged, accounts)
	for i := range merged {
		a := &merged[i]

		rec := byName[strings.ToLower(a.AccountName)]
		if rec == nil {
			for _, d := range a.Domains {
				if r, ok := byDomain[strings.ToLower(d)]; ok {
					rec = r
					break
				}
			}
		}
		if rec == nil {
			continue
		}

		if a.LinkedInOrganicImpressions == 0 {
			a.LinkedInOrganicImpressions = rec.Impressions
		}
		a.LinkedInTotalImpressions = a.LinkedInOrganicImpressions + a.LinkedInAdImpressions
	}
	return merged
}

// MergeLinkedInAds fills per-account ad impression gaps from a LinkedIn Ads
// export, matching the same way as MergeFibbler.
func MergeLinkedInAds(accounts []model.CanonicalAccount, records []AdsRecord) []model.CanonicalAccount {
	byName := make(map[string]*AdsRecord, len(records))
	byDomain := make(map[string]*AdsRecord, len(records))
	for i := range records {
		rec := &records[i]
		if rec.AccountName != "" {
			byName[strings.ToLower(rec.AccountName)] = rec
		}
		if rec.Domain != "" {
			byDomain[strings.ToLower(rec.Domain)] = rec
		}
	}

	merged := make([]model.CanonicalAccount, len(accounts))
	copy(merged, accounts)
	for i := range merged {
		a := &merged[i]

		rec := byName[strings.ToLower(a.AccountName)]
		if rec == nil {
			for _, d := range a.Domains {
				if r, ok := byDomain[strings.ToLower(d)]; ok {
					rec = r
					break
				}
			}
		}
		if rec == nil {
			continue
		}

		if a.LinkedInAdImpressions == 0 {
			a.LinkedInAdImpressions = rec.Impressions
		}
		a.LinkedInTotalImpressions = a.LinkedInOrganicImpressions + a.LinkedInAdImpressions
	}
	return merged
}
