package aggregate

import (
	"sort"
	"strings"

	"github.com/sells-group/abm-reporter/internal/model"
)

// Query applies the fixed filter -> sort -> paginate order to the merged
// account list. The input slice is never mutated.
func Query(accounts []model.CanonicalAccount, f model.AccountFilter) []model.CanonicalAccount {
	f = f.Normalized()
	out := Filter(accounts, f)
	sortAccounts(out, f.SortBy, f.SortOrder)
	return Paginate(out, f.Page, f.PageSize)
}

// Filter returns the accounts passing every given predicate. Predicates are
// AND-combined and independent of application order.
func Filter(accounts []model.CanonicalAccount, f model.AccountFilter) []model.CanonicalAccount {
	out := make([]model.CanonicalAccount, 0, len(accounts))
	for _, a := range accounts {
		if matches(&a, f) {
			out = append(out, a)
		}
	}
	return out
}

func matches(a *model.CanonicalAccount, f model.AccountFilter) bool {
	if f.MinPipeline != nil && a.PipelineValue < *f.MinPipeline {
		return false
	}
	if f.MaxPipeline != nil && a.PipelineValue > *f.MaxPipeline {
		return false
	}
	if f.MinContacts != nil && a.TotalContacts < *f.MinContacts {
		return false
	}
	if f.HasOpenOpportunities != nil {
		if *f.HasOpenOpportunities && a.OpenOpportunities == 0 {
			return false
		}
		if !*f.HasOpenOpportunities && a.OpenOpportunities > 0 {
			return false
		}
	}
	if len(f.Industries) > 0 && !containsString(f.Industries, a.Industry) {
		return false
	}
	if f.MinIntentScore != nil {
		score := 0
		if a.IntentScore != nil {
			score = *a.IntentScore
		}
		if score < *f.MinIntentScore {
			return false
		}
	}
	if f.SearchQuery != "" && !matchesSearch(a, f.SearchQuery) {
		return false
	}
	return true
}

// matchesSearch reports whether the query is a case-insensitive substring of
// the account name or of any owned domain.
func matchesSearch(a *model.CanonicalAccount, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(a.AccountName), q) {
		return true
	}
	for _, d := range a.Domains {
		if strings.Contains(strings.ToLower(d), q) {
			return true
		}
	}
	return false
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// sortAccounts orders the slice in place by the given key and direction.
// An unknown key falls back to pipeline value; ties keep original order.
func sortAccounts(accounts []model.CanonicalAccount, sortBy, order string) {
	var less func(a, b *model.CanonicalAccount) bool
	switch sortBy {
	case model.SortByTotalContacts:
		less = func(a, b *model.CanonicalAccount) bool { return a.TotalContacts < b.TotalContacts }
	case model.SortByWebsiteSessions:
		less = func(a, b *model.CanonicalAccount) bool { return a.WebsiteSessions < b.WebsiteSessions }
	case model.SortByFormSubmissions:
		less = func(a, b *model.CanonicalAccount) bool { return a.FormSubmissions < b.FormSubmissions }
	case model.SortByAccountName:
		less = func(a, b *model.CanonicalAccount) bool {
			return strings.ToLower(a.AccountName) < strings.ToLower(b.AccountName)
		}
	case model.SortByLinkedInImpressions:
		less = func(a, b *model.CanonicalAccount) bool {
			return a.LinkedInTotalImpressions < b.LinkedInTotalImpressions
		}
	default:
		less = func(a, b *model.CanonicalAccount) bool { return a.PipelineValue < b.PipelineValue }
	}

	desc := order != model.SortAsc
	sort.SliceStable(accounts, func(i, j int) bool {
		if desc {
			return less(&accounts[j], &accounts[i])
		}
		return less(&accounts[i], &accounts[j])
	})
}

// Paginate slices out the 1-indexed page. An out-of-range page yields an
// empty slice, not an error.
func Paginate(accounts []model.CanonicalAccount, page, pageSize int) []model.CanonicalAccount {
	if page < 1 || pageSize < 1 {
		return []model.CanonicalAccount{}
	}
	start := (page - 1) * pageSize
	if start >= len(accounts) {
		return []model.CanonicalAccount{}
	}
	end := start + pageSize
	if end > len(accounts) {
		end = len(accounts)
	}
	return accounts[start:end]
}

// Summarize computes aggregate totals over the full unfiltered set.
func Summarize(accounts []model.CanonicalAccount) model.SummaryStats {
	stats := model.SummaryStats{TotalAccounts: len(accounts)}
	for _, a := range accounts {
		stats.TotalPipeline += a.PipelineValue
		stats.TotalContacts += a.TotalContacts
		stats.TotalSFDCContacts += a.SFDCContacts
		stats.TotalHubSpotContacts += a.HubSpotContacts
		stats.TotalWebsiteSessions += a.WebsiteSessions
		stats.TotalFormSubmissions += a.FormSubmissions
		stats.OpenOpportunities += a.OpenOpportunities
		stats.ClosedWonOpportunities += a.ClosedWon
		stats.ClosedLostOpportunities += a.ClosedLost
		if a.OpenOpportunities > 0 {
			stats.AccountsWithOpenOpportunities++
		}
	}
	if stats.TotalAccounts > 0 {
		stats.AvgContactsPerAccount = float64(stats.TotalContacts) / float64(stats.TotalAccounts)
	}
	return stats
}
