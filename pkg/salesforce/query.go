package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Account represents a Salesforce Account record.
type Account struct {
	ID                string  `json:"Id" salesforce:"Id"`
	Name              string  `json:"Name" salesforce:"Name"`
	Website           string  `json:"Website" salesforce:"Website"`
	Industry          string  `json:"Industry" salesforce:"Industry"`
	BillingCity       string  `json:"BillingCity" salesforce:"BillingCity"`
	BillingCountry    string  `json:"BillingCountry" salesforce:"BillingCountry"`
	Type              string  `json:"Type" salesforce:"Type"`
	NumberOfEmployees int     `json:"NumberOfEmployees" salesforce:"NumberOfEmployees"`
	AnnualRevenue     float64 `json:"AnnualRevenue" salesforce:"AnnualRevenue"`
}

// accountFields are the SOQL fields selected for Account queries.
var accountFields = []string{
	"Id", "Name", "Website", "Industry",
	"BillingCity", "BillingCountry", "Type",
	"NumberOfEmployees", "AnnualRevenue",
}

// FetchAccounts returns all non-deleted Accounts ordered by name.
func FetchAccounts(ctx context.Context, c Client) ([]Account, error) {
	soql := fmt.Sprintf(
		"SELECT %s FROM Account WHERE IsDeleted = false ORDER BY Name",
		strings.Join(accountFields, ", "),
	)

	var accounts []Account
	if err := c.Query(ctx, soql, &accounts); err != nil {
		return nil, eris.Wrap(err, "sf: fetch accounts")
	}
	return accounts, nil
}

// contactCountRow is one row of the contact-count aggregate query.
type contactCountRow struct {
	AccountID string `json:"AccountId" salesforce:"AccountId"`
	Count     int    `json:"contactCount" salesforce:"contactCount"`
}

// ContactCountsByAccount returns contact counts grouped by account ID.
// Aggregate SOQL does not paginate, so the query is capped at Salesforce's
// 2000-row aggregate limit.
func ContactCountsByAccount(ctx context.Context, c Client) (map[string]int, error) {
	soql := "SELECT AccountId, COUNT(Id) contactCount FROM Contact " +
		"WHERE AccountId != null AND IsDeleted = false GROUP BY AccountId LIMIT 2000"

	var rows []contactCountRow
	if err := c.Query(ctx, soql, &rows); err != nil {
		return nil, eris.Wrap(err, "sf: contact counts")
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.AccountID] = row.Count
	}
	return counts, nil
}

// OpportunitySummary is the per-account opportunity rollup. PipelineValue
// sums amounts of open opportunities only.
type OpportunitySummary struct {
	OpenOpps      int
	ClosedWon     int
	ClosedLost    int
	PipelineValue float64
}

// oppRow is one row of an opportunity aggregate query.
type oppRow struct {
	AccountID string  `json:"AccountId" salesforce:"AccountId"`
	Count     int     `json:"oppCount" salesforce:"oppCount"`
	Total     float64 `json:"totalAmount" salesforce:"totalAmount"`
}

// OpportunitySummaryByAccount rolls up opportunities per account in three
// aggregate queries: open (count + summed amount), closed won (count), and
// closed lost (count). Closed opportunities never contribute to pipeline value.
func OpportunitySummaryByAccount(ctx context.Context, c Client) (map[string]OpportunitySummary, error) {
	const (
		openQuery = "SELECT AccountId, COUNT(Id) oppCount, SUM(Amount) totalAmount FROM Opportunity " +
			"WHERE IsClosed = false AND AccountId != null GROUP BY AccountId"
		wonQuery = "SELECT AccountId, COUNT(Id) oppCount FROM Opportunity " +
			"WHERE IsWon = true AND AccountId != null GROUP BY AccountId"
		lostQuery = "SELECT AccountId, COUNT(Id) oppCount FROM Opportunity " +
			"WHERE IsClosed = true AND IsWon = false AND AccountId != null GROUP BY AccountId"
	)

	var open, won, lost []oppRow
	if err := c.Query(ctx, openQuery, &open); err != nil {
		return nil, eris.Wrap(err, "sf: open opportunities")
	}
	if err := c.Query(ctx, wonQuery, &won); err != nil {
		return nil, eris.Wrap(err, "sf: closed won opportunities")
	}
	if err := c.Query(ctx, lostQuery, &lost); err != nil {
		return nil, eris.Wrap(err, "sf: closed lost opportunities")
	}

	summary := make(map[string]OpportunitySummary)
	for _, row := range open {
		s := summary[row.AccountID]
		s.OpenOpps = row.Count
		s.PipelineValue = row.Total
		summary[row.AccountID] = s
	}
	for _, row := range won {
		s := summary[row.AccountID]
		s.ClosedWon = row.Count
		summary[row.AccountID] = s
	}
	for _, row := range lost {
		s := summary[row.AccountID]
		s.ClosedLost = row.Count
		summary[row.AccountID] = s
	}
	return summary, nil
}

// SearchAccountsByDomain finds accounts whose website contains the given
// domain. Used for targeted lookups outside the aggregation path.
func SearchAccountsByDomain(ctx context.Context, c Client, domain string) ([]Account, error) {
	soql := fmt.Sprintf(
		"SELECT %s FROM Account WHERE Website LIKE '%%%s%%' AND IsDeleted = false",
		strings.Join(accountFields, ", "),
		escapeSoql(domain),
	)

	var accounts []Account
	if err := c.Query(ctx, soql, &accounts); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("sf: search accounts by domain %s", domain))
	}
	return accounts, nil
}

// escapeSoql escapes single quotes in SOQL string literals to prevent injection.
func escapeSoql(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
