package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gitlab.com/aoterocom/AOCryptomarket/models"
)

// LoadPage fetches one listing page under the retry policy and appends the
// coins not listed yet. When the attempts run out the listing is left as is.
func (rc *RefreshCoordinator) LoadPage(page int) *Task {
	rc.pageLoading.Store(true)
	return rc.launch("loadPage", func(ctx context.Context) {
		rc.loadPage(ctx, page)
	}, func() { rc.pageLoading.Store(false) })
}

// LoadMore requests the next page unless a page load is already running, in
// which case it does nothing and returns a completed task.
func (rc *RefreshCoordinator) LoadMore() *Task {
	if !rc.pageLoading.CompareAndSwap(false, true) {
		return completedTask()
	}
	page := int(rc.page.Add(1))
	return rc.launch("loadMore", func(ctx context.Context) {
		rc.loadPage(ctx, page)
	}, func() { rc.pageLoading.Store(false) })
}

// Refresh drops the listing and reloads the first page only. Pages past the
// first disappear until LoadMore asks for them again.
func (rc *RefreshCoordinator) Refresh() *Task {
	rc.page.Store(1)
	rc.listing.Replace(nil)
	return rc.LoadPage(1)
}

func (rc *RefreshCoordinator) loadPage(ctx context.Context, page int) {
	fields := log.Fields{"page": page}

	var coins []models.Coin
	err := rc.retry(ctx, rc.retryPolicy, "loadPage", fields, func(ctx context.Context) error {
		fetched, err := rc.marketService.FetchPage(ctx, page)
		if err != nil {
			return err
		}
		coins = fetched
		return nil
	})
	if err != nil {
		rc.logger.WithFields(fields).Warnln("giving up loading listing page: " + err.Error())
		return
	}

	added := rc.listing.AppendMissing(coins, models.Coin.Key)
	rc.logger.WithFields(fields).WithField("added", added).Debugln("listing page loaded")
}

// Search resolves a free-text query in two hops: the search endpoint gives the
// ids, the id lookup gives the market fields. Both hops are retried together
// and the results replace the previous ones only once both succeed.
func (rc *RefreshCoordinator) Search(query string) *Task {
	return rc.launch("search", func(ctx context.Context) {
		fields := log.Fields{"query": query}

		var coins []models.Coin
		err := rc.retry(ctx, rc.retryPolicy, "search", fields, func(ctx context.Context) error {
			hits, err := rc.marketService.Search(ctx, query)
			if err != nil {
				return err
			}

			ids := models.SearchResult{Coins: hits}.IDs()
			if len(ids) == 0 {
				coins = nil
				return nil
			}

			found, err := rc.marketService.FetchByIds(ctx, ids)
			if err != nil {
				return fmt.Errorf("resolve search ids: %w", err)
			}
			coins = found
			return nil
		})
		if err != nil {
			rc.logger.WithFields(fields).Warnln("giving up on search: " + err.Error())
			return
		}

		rc.searchResults.Replace(coins)
		rc.logger.WithFields(fields).WithField("results", len(coins)).Debugln("search resolved")
	})
}

// LookupTask carries the coins found by LookupByIds once it is done.
type LookupTask struct {
	*Task
	result *Collection[models.Coin]
}

// Result is only complete after the task is done.
func (t *LookupTask) Result() []models.Coin {
	return t.result.Snapshot()
}

// LookupByIds fetches the given ids once, without retry, and keeps the coins
// that are not already in the listing.
func (rc *RefreshCoordinator) LookupByIds(ids []string) *LookupTask {
	lookup := &LookupTask{result: NewCollection[models.Coin]()}
	if len(ids) == 0 {
		lookup.Task = completedTask()
		return lookup
	}

	lookup.Task = rc.launch("lookupByIds", func(ctx context.Context) {
		coins, err := rc.marketService.FetchByIds(ctx, ids)
		if err != nil {
			rc.logger.WithField("ids", len(ids)).Warnln("lookup by ids failed: " + err.Error())
			return
		}

		listed := make(map[string]struct{})
		for _, coin := range rc.listing.Snapshot() {
			listed[coin.Key()] = struct{}{}
		}

		var missing []models.Coin
		for _, coin := range coins {
			if _, ok := listed[coin.Key()]; !ok {
				missing = append(missing, coin)
			}
		}
		lookup.result.Replace(missing)
	})
	return lookup
}
