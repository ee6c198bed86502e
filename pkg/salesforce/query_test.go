package salesforce

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient implements Client for testing.
type mockClient struct {
	queryFn func(ctx context.Context, soql string, out any) error
}

func (m *mockClient) Query(ctx context.Context, soql string, out any) error {
	if m.queryFn != nil {
		return m.queryFn(ctx, soql, out)
	}
	return nil
}

func TestFetchAccounts(t *testing.T) {
	var captured string
	mock := &mockClient{
		queryFn: func(_ context.Context, soql string, out any) error {
			captured = soql
			accounts := out.(*[]Account)
			*accounts = []Account{
				{ID: "001A", Name: "Acme Corp", Website: "https://acme.com", Industry: "Manufacturing"},
				{ID: "001B", Name: "Widgets Inc", Website: "widgets.io"},
			}
			return nil
		},
	}

	accounts, err := FetchAccounts(context.Background(), mock)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Acme Corp", accounts[0].Name)
	assert.Contains(t, captured, "FROM Account")
	assert.Contains(t, captured, "IsDeleted = false")
	assert.Contains(t, captured, "ORDER BY Name")
}

func TestFetchAccountsError(t *testing.T) {
	mock := &mockClient{
		queryFn: func(_ context.Context, _ string, _ any) error {
			return eris.New("boom")
		},
	}

	_, err := FetchAccounts(context.Background(), mock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch accounts")
}

func TestContactCountsByAccount(t *testing.T) {
	mock := &mockClient{
		queryFn: func(_ context.Context, soql string, out any) error {
			assert.Contains(t, soql, "GROUP BY AccountId")
			rows := out.(*[]contactCountRow)
			*rows = []contactCountRow{
				{AccountID: "001A", Count: 12},
				{AccountID: "001B", Count: 3},
			}
			return nil
		},
	}

	counts, err := ContactCountsByAccount(context.Background(), mock)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"001A": 12, "001B": 3}, counts)
}

func TestOpportunitySummaryByAccount(t *testing.T) {
	mock := &mockClient{
		queryFn: func(_ context.Context, soql string, out any) error {
			rows := out.(*[]oppRow)
			switch {
			case strings.Contains(soql, "IsClosed = false"):
				*rows = []oppRow{{AccountID: "001A", Count: 2, Total: 150000}}
			case strings.Contains(soql, "IsWon = true"):
				*rows = []oppRow{{AccountID: "001A", Count: 1}, {AccountID: "001B", Count: 4}}
			default:
				*rows = []oppRow{{AccountID: "001B", Count: 2}}
			}
			return nil
		},
	}

	summary, err := OpportunitySummaryByAccount(context.Background(), mock)
	require.NoError(t, err)

	a := summary["001A"]
	assert.Equal(t, 2, a.OpenOpps)
	assert.Equal(t, 1, a.ClosedWon)
	assert.Equal(t, 0, a.ClosedLost)
	assert.Equal(t, 150000.0, a.PipelineValue)

	b := summary["001B"]
	assert.Equal(t, 0, b.OpenOpps)
	assert.Equal(t, 4, b.ClosedWon)
	assert.Equal(t, 2, b.ClosedLost)
	assert.Equal(t, 0.0, b.PipelineValue)
}

func TestOpportunitySummaryClosedAmountsIgnored(t *testing.T) {
	// Closed rows may carry totals from the SUM alias; only open
	// opportunities contribute to pipeline value.
	mock := &mockClient{
		queryFn: func(_ context.Context, soql string, out any) error {
			rows := out.(*[]oppRow)
			if strings.Contains(soql, "IsClosed = false") {
				return nil
			}
			*rows = []oppRow{{AccountID: "001A", Count: 1, Total: 999999}}
			return nil
		},
	}

	summary, err := OpportunitySummaryByAccount(context.Background(), mock)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary["001A"].PipelineValue)
}

func TestSearchAccountsByDomain(t *testing.T) {
	var captured string
	mock := &mockClient{
		queryFn: func(_ context.Context, soql string, out any) error {
			captured = soql
			accounts := out.(*[]Account)
			*accounts = []Account{{ID: "001A", Name: "Acme Corp", Website: "acme.com"}}
			return nil
		},
	}

	accounts, err := SearchAccountsByDomain(context.Background(), mock, "acme.com")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Contains(t, captured, "LIKE '%acme.com%'")
}

func TestEscapeSoql(t *testing.T) {
	assert.Equal(t, `O\'Reilly`, escapeSoql("O'Reilly"))
	assert.Equal(t, "plain", escapeSoql("plain"))
}
