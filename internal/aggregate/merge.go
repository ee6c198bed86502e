package aggregate

import (
	"time"

	"github.com/sells-group/abm-reporter/internal/model"
	"github.com/sells-group/abm-reporter/internal/provider"
)

// accountIndex is a canonical-key -> account mapping that preserves
// insertion order, so merged output is deterministic run to run.
type accountIndex struct {
	keys  []string
	byKey map[string]*model.CanonicalAccount
}

func newAccountIndex() *accountIndex {
	return &accountIndex{byKey: make(map[string]*model.CanonicalAccount)}
}

func (ix *accountIndex) get(key string) *model.CanonicalAccount {
	return ix.byKey[key]
}

// put stores the account under key, appending the key on first insert.
func (ix *accountIndex) put(key string, acct *model.CanonicalAccount) {
	if _, ok := ix.byKey[key]; !ok {
		ix.keys = append(ix.keys, key)
	}
	ix.byKey[key] = acct
}

// clone deep-copies the index so fold stages never alias their input.
func (ix *accountIndex) clone() *accountIndex {
	out := &accountIndex{
		keys:  append([]string(nil), ix.keys...),
		byKey: make(map[string]*model.CanonicalAccount, len(ix.byKey)),
	}
	for key, acct := range ix.byKey {
		cp := *acct
		cp.Domains = append([]string(nil), acct.Domains...)
		out.byKey[key] = &cp
	}
	return out
}

// list materializes the accounts in insertion order, stamping each with the
// merge completion time.
func (ix *accountIndex) list(mergedAt time.Time) []model.CanonicalAccount {
	out := make([]model.CanonicalAccount, 0, len(ix.keys))
	for _, key := range ix.keys {
		acct := *ix.byKey[key]
		acct.LastUpdated = mergedAt
		out = append(out, acct)
	}
	return out
}

// seedSalesforce builds the initial canonical mapping from the CRM account
// list: one record per account with extracted domain, enrichment fields,
// CRM contact count, and the opportunity rollup.
func seedSalesforce(data provider.SalesforceData) *accountIndex {
	ix := newAccountIndex()
	for _, sf := range data.Accounts {
		acct := &model.CanonicalAccount{
			AccountName:  sf.Name,
			SFDCContacts: data.ContactCounts[sf.ID],
			Industry:     sf.Industry,
		}
		if d := ExtractDomain(sf.Website); d != "" {
			acct.AddDomain(d)
		}
		acct.TotalContacts = acct.SFDCContacts

		opp := data.Opportunities[sf.ID]
		acct.OpenOpportunities = opp.OpenOpps
		acct.ClosedWon = opp.ClosedWon
		acct.ClosedLost = opp.ClosedLost
		acct.CurrentOpportunities = opp.OpenOpps + opp.ClosedWon + opp.ClosedLost
		acct.PipelineValue = opp.PipelineValue

		if sf.EmployeeCount > 0 {
			n := sf.EmployeeCount
			acct.EmployeeCount = &n
		}
		if sf.AnnualRevenue > 0 {
			r := sf.AnnualRevenue
			acct.AnnualRevenue = &r
		}

		ix.put(CanonicalKey(sf.Name), acct)
	}
	return ix
}

// foldHubSpot merges marketing-automation companies into the mapping.
// Matching is by canonical name; matched records union in the company domain
// and keep earlier enrichment (first writer wins). Unmatched companies
// become new records with CRM-only fields zeroed. The HubSpot contact count
// is set unconditionally and the contact total recomputed.
func foldHubSpot(in *accountIndex, data provider.HubSpotData) *accountIndex {
	ix := in.clone()
	for _, co := range data.Companies {
		key := CanonicalKey(co.Name)
		acct := ix.get(key)
		if acct != nil {
			acct.AddDomain(co.Domain)
			if acct.Industry == "" {
				acct.Industry = co.Industry
			}
			if acct.EmployeeCount == nil && co.EmployeeCount > 0 {
				n := co.EmployeeCount
				acct.EmployeeCount = &n
			}
			if acct.AnnualRevenue == nil && co.AnnualRevenue > 0 {
				r := co.AnnualRevenue
				acct.AnnualRevenue = &r
			}
		} else {
			acct = &model.CanonicalAccount{
				AccountName: co.Name,
				Industry:    co.Industry,
			}
			acct.AddDomain(co.Domain)
			if co.EmployeeCount > 0 {
				n := co.EmployeeCount
				acct.EmployeeCount = &n
			}
			if co.AnnualRevenue > 0 {
				r := co.AnnualRevenue
				acct.AnnualRevenue = &r
			}
			ix.put(key, acct)
		}

		acct.HubSpotContacts = data.ContactCounts[co.ID]
		acct.TotalContacts = acct.SFDCContacts + acct.HubSpotContacts
	}
	return ix
}

// foldFormSubmissions buckets submissions by contact email domain and credits
// each account with the bucket counts of every domain it owns.
func foldFormSubmissions(in *accountIndex, submissions []model.FormSubmission) *accountIndex {
	byDomain := make(map[string]int)
	for _, sub := range submissions {
		if d := EmailDomain(sub.ContactEmail); d != "" {
			byDomain[d]++
		}
	}

	ix := in.clone()
	for _, key := range ix.keys {
		acct := ix.byKey[key]
		for _, domain := range acct.Domains {
			acct.FormSubmissions += byDomain[domain]
		}
	}
	return ix
}

// foldWebSessions copies session metrics onto each account from the first
// owned domain present in the session map. Metrics are not summed across an
// account's domains.
func foldWebSessions(in *accountIndex, sessions map[string]model.WebsiteMetrics) *accountIndex {
	ix := in.clone()
	for _, key := range ix.keys {
		acct := ix.byKey[key]
		for _, domain := range acct.Domains {
			if m, ok := sessions[domain]; ok {
				acct.WebsiteSessions = m.Sessions
				acct.WebsitePageViews = m.PageViews
				break
			}
		}
	}
	return ix
}

// foldLinkedIn sums organization-wide impressions and recomputes each
// account's LinkedIn total. The org-level numbers are not distributed to
// individual accounts, so per-account organic/ad impressions stay at their
// seeded values; the run-level totals are returned for reporting.
func foldLinkedIn(in *accountIndex, data provider.LinkedInData) (*accountIndex, model.OrgEngagement) {
	var org model.OrgEngagement
	for _, s := range data.OrganicStats {
		org.OrganicImpressions += s.Impressions
	}
	for _, s := range data.AdAnalytics {
		org.AdImpressions += s.Impressions
	}
	org.TotalImpressions = org.OrganicImpressions + org.AdImpressions

	ix := in.clone()
	for _, key := range ix.keys {
		acct := ix.byKey[key]
		acct.LinkedInTotalImpressions = acct.LinkedInOrganicImpressions + acct.LinkedInAdImpressions
	}
	return ix, org
}

// mergeAll runs the five fold stages in their fixed order and materializes
// the account list.
func mergeAll(
	sfd provider.SalesforceData,
	hsd provider.HubSpotData,
	lid provider.LinkedInData,
	fad provider.FactorsData,
	mergedAt time.Time,
) ([]model.CanonicalAccount, model.OrgEngagement) {
	ix := seedSalesforce(sfd)
	ix = foldHubSpot(ix, hsd)
	ix = foldFormSubmissions(ix, hsd.FormSubmissions)
	ix = foldWebSessions(ix, fad.Sessions)
	ix, org := foldLinkedIn(ix, lid)
	return ix.list(mergedAt), org
}
