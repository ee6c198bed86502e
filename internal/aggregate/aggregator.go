// Package aggregate implements the core of the reporter: concurrent fan-out
// to the four integration providers, identity resolution and merge into
// canonical accounts, a short-lived result cache, and filter/sort/paginate
// queries over the merged list.
package aggregate

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/abm-reporter/internal/model"
	"github.com/sells-group/abm-reporter/internal/provider"
)

// ErrAccountNotFound is returned by AccountByName when no account matches.
var ErrAccountNotFound = eris.New("aggregate: account not found")

// Options controls a single aggregation call.
type Options struct {
	Range        model.DateRange
	ForceRefresh bool
}

// Aggregator fans out to all providers, merges their partial datasets into
// canonical accounts, and memoizes the result. All dependencies are
// constructor-injected; there is no process-global instance.
type Aggregator struct {
	salesforce provider.Salesforce
	hubspot    provider.HubSpot
	linkedin   provider.LinkedIn
	factors    provider.Factors

	cache  *resultCache
	flight singleflight.Group
	now    func() time.Time // injectable for testing
}

// New creates an Aggregator. A non-positive ttl falls back to DefaultCacheTTL.
func New(sf provider.Salesforce, hs provider.HubSpot, li provider.LinkedIn, fa provider.Factors, ttl time.Duration) *Aggregator {
	return &Aggregator{
		salesforce: sf,
		hubspot:    hs,
		linkedin:   li,
		factors:    fa,
		cache:      newResultCache(ttl),
		now:        time.Now,
	}
}

// WithNow sets a fixed clock for testing.
func (a *Aggregator) WithNow(fn func() time.Time) *Aggregator {
	a.now = fn
	return a
}

// Aggregate returns the merged account list, serving from cache when the
// previous result is younger than the TTL. ForceRefresh bypasses the
// validity check and recomputes. Concurrent misses are collapsed into a
// single provider fan-out; provider failures degrade to that provider's
// empty dataset and never surface to the caller.
func (a *Aggregator) Aggregate(ctx context.Context, opts Options) (*model.AccountList, error) {
	if !opts.ForceRefresh {
		if cached := a.cache.Get(a.now()); cached != nil {
			zap.L().Debug("aggregate: serving cached result",
				zap.Int("accounts", cached.TotalCount),
				zap.Time("last_synced", cached.LastSynced),
			)
			return cached, nil
		}
	}

	v, err, shared := a.flight.Do("aggregate", func() (any, error) {
		return a.refresh(ctx, opts.Range)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		zap.L().Debug("aggregate: joined in-flight refresh")
	}
	return v.(*model.AccountList), nil
}

// InvalidateCache clears the memoized result; the next call recomputes.
func (a *Aggregator) InvalidateCache() {
	a.cache.Invalidate()
}

// AccountByName finds one account by case-insensitive exact name match.
func (a *Aggregator) AccountByName(ctx context.Context, name string) (*model.CanonicalAccount, error) {
	list, err := a.Aggregate(ctx, Options{})
	if err != nil {
		return nil, err
	}
	for i := range list.Accounts {
		if strings.EqualFold(list.Accounts[i].AccountName, name) {
			acct := list.Accounts[i]
			return &acct, nil
		}
	}
	return nil, ErrAccountNotFound
}

// refresh performs the provider fan-out and merge, then overwrites the cache.
func (a *Aggregator) refresh(ctx context.Context, dr model.DateRange) (*model.AccountList, error) {
	start := a.now()
	dr = dr.OrDefault(start)

	var (
		sfd provider.SalesforceData
		hsd provider.HubSpotData
		lid provider.LinkedInData
		fad provider.FactorsData
	)

	// Each fetch is wrapped so a provider failure degrades to its empty
	// default instead of aborting the run; the group funcs therefore never
	// return an error and no sibling fetch is cancelled.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sfd = fetchOrEmpty(gctx, "salesforce", dr, a.salesforce.Fetch, provider.EmptySalesforceData)
		return nil
	})
	g.Go(func() error {
		hsd = fetchOrEmpty(gctx, "hubspot", dr, a.hubspot.Fetch, provider.EmptyHubSpotData)
		return nil
	})
	g.Go(func() error {
		lid = fetchOrEmpty(gctx, "linkedin", dr, a.linkedin.Fetch, provider.EmptyLinkedInData)
		return nil
	})
	g.Go(func() error {
		fad = fetchOrEmpty(gctx, "factors", dr, a.factors.Fetch, provider.EmptyFactorsData)
		return nil
	})
	_ = g.Wait()

	mergedAt := a.now()
	accounts, org := mergeAll(sfd, hsd, lid, fad, mergedAt)

	list := &model.AccountList{
		Accounts:      accounts,
		TotalCount:    len(accounts),
		OrgEngagement: org,
		LastSynced:    mergedAt,
	}
	a.cache.Put(list, mergedAt)

	zap.L().Info("aggregate: refresh complete",
		zap.Int("accounts", list.TotalCount),
		zap.Duration("elapsed", mergedAt.Sub(start)),
	)
	return list, nil
}

// fetchOrEmpty runs one provider fetch, substituting the documented empty
// default on failure.
func fetchOrEmpty[T any](ctx context.Context, name string, dr model.DateRange, fetch func(context.Context, model.DateRange) (T, error), empty func() T) T {
	data, err := fetch(ctx, dr)
	if err != nil {
		zap.L().Error("aggregate: provider fetch failed, using empty dataset",
			zap.String("provider", name),
			zap.Error(err),
		)
		return empty()
	}
	return data
}
