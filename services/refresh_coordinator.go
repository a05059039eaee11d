package services

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"gitlab.com/aoterocom/AOCryptomarket/helpers"
	"gitlab.com/aoterocom/AOCryptomarket/interfaces"
	"gitlab.com/aoterocom/AOCryptomarket/models"
)

const DefaultQuoteAsset = "USDT"

// RefreshCoordinator owns the market collections and is the only writer of
// them. Every public operation starts its own unit of work bound to the
// coordinator context; Close cancels them all and waits for them to return.
type RefreshCoordinator struct {
	marketService interfaces.MarketService
	candleService interfaces.CandleService
	moversService interfaces.MoversService
	savedStore    interfaces.SavedStore
	retryPolicy   RetryPolicy
	windowPolicy  RetryPolicy
	quoteAsset    string
	now           func() time.Time
	logger        *log.Logger

	listing       *Collection[models.Coin]
	searchResults *Collection[models.Coin]
	gainers       *Collection[models.Coin]
	losers        *Collection[models.Coin]
	saved         *Collection[models.Coin]
	history       *Collection[models.CandlePoint]

	page        atomic.Int64
	pageLoading atomic.Bool
	inFlight    atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

type CoordinatorOption func(*RefreshCoordinator)

func WithRetryPolicy(policy RetryPolicy) CoordinatorOption {
	return func(rc *RefreshCoordinator) {
		rc.retryPolicy = policy
	}
}

// WithWindowRetryPolicy sets the policy applied to each history window.
func WithWindowRetryPolicy(policy RetryPolicy) CoordinatorOption {
	return func(rc *RefreshCoordinator) {
		rc.windowPolicy = policy
	}
}

func WithQuoteAsset(quoteAsset string) CoordinatorOption {
	return func(rc *RefreshCoordinator) {
		rc.quoteAsset = quoteAsset
	}
}

func WithClock(now func() time.Time) CoordinatorOption {
	return func(rc *RefreshCoordinator) {
		rc.now = now
	}
}

func WithLogger(logger *log.Logger) CoordinatorOption {
	return func(rc *RefreshCoordinator) {
		rc.logger = logger
	}
}

func NewRefreshCoordinator(ctx context.Context, marketService interfaces.MarketService, candleService interfaces.CandleService,
	moversService interfaces.MoversService, savedStore interfaces.SavedStore, opts ...CoordinatorOption) *RefreshCoordinator {

	rc := &RefreshCoordinator{
		marketService: marketService,
		candleService: candleService,
		moversService: moversService,
		savedStore:    savedStore,
		retryPolicy:   DefaultRetryPolicy(),
		windowPolicy:  NewRetryPolicy(1, time.Second),
		quoteAsset:    DefaultQuoteAsset,
		now:           time.Now,
		logger:        helpers.Logger.Logger,
		listing:       NewCollection[models.Coin](),
		searchResults: NewCollection[models.Coin](),
		gainers:       NewCollection[models.Coin](),
		losers:        NewCollection[models.Coin](),
		saved:         NewCollection[models.Coin](),
		history:       NewCollection[models.CandlePoint](),
	}
	for _, opt := range opts {
		opt(rc)
	}

	rc.ctx, rc.cancel = context.WithCancel(ctx)
	rc.page.Store(1)
	return rc
}

func (rc *RefreshCoordinator) Listing() View[models.Coin] { return rc.listing }
func (rc *RefreshCoordinator) SearchResults() View[models.Coin] { return rc.searchResults }
func (rc *RefreshCoordinator) Gainers() View[models.Coin] { return rc.gainers }
func (rc *RefreshCoordinator) Losers() View[models.Coin] { return rc.losers }
func (rc *RefreshCoordinator) Saved() View[models.Coin] { return rc.saved }
func (rc *RefreshCoordinator) History() View[models.CandlePoint] { return rc.history }

// Loading reports whether any unit of work is still running.
func (rc *RefreshCoordinator) Loading() bool {
	return rc.inFlight.Load() > 0
}

// Page is the last listing page requested.
func (rc *RefreshCoordinator) Page() int {
	return int(rc.page.Load())
}

// Start runs the startup sequence: first listing page, gainers/losers and the
// saved coins, each as its own unit of work.
func (rc *RefreshCoordinator) Start() *Task {
	return WaitAll(
		rc.LoadPage(1),
		rc.RefreshGainersLosers(),
		rc.LoadSaved(),
	)
}

// RefreshDetail reloads everything a coin detail view shows.
func (rc *RefreshCoordinator) RefreshDetail(symbol string) *Task {
	refreshTask := rc.Refresh()
	moversTask := rc.RefreshGainersLosers()
	rc.history.Replace(nil)
	historyTask := rc.LoadHistory(symbol, rc.now().Add(-24*time.Hour), models.IntervalMinute)
	return WaitAll(refreshTask, moversTask, historyTask)
}

// Close cancels every running unit of work and waits for them to finish.
func (rc *RefreshCoordinator) Close() {
	rc.mu.Lock()
	rc.closed = true
	rc.mu.Unlock()

	rc.cancel()
	rc.wg.Wait()
}

// launch runs work in its own goroutine. The in-flight counter and every
// finalizer are released on all paths: success, failure, panic and
// cancellation, and also when the coordinator is already closed.
func (rc *RefreshCoordinator) launch(name string, work func(ctx context.Context), finalizers ...func()) *Task {
	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		for _, finalize := range finalizers {
			finalize()
		}
		return completedTask()
	}
	rc.wg.Add(1)
	rc.inFlight.Add(1)
	rc.mu.Unlock()

	task := newTask()
	go func() {
		defer rc.wg.Done()
		defer close(task.done)
		defer rc.inFlight.Add(-1)
		defer func() {
			for _, finalize := range finalizers {
				finalize()
			}
		}()
		defer func() {
			if r := recover(); r != nil {
				rc.logger.WithField("operation", name).
					Errorln(fmt.Sprintf("Recovered. Error on %s: %v\n%s", name, r, debug.Stack()))
			}
		}()

		work(rc.ctx)
	}()
	return task
}

// retry runs op under the coordinator retry policy, logging every failed attempt.
func (rc *RefreshCoordinator) retry(ctx context.Context, policy RetryPolicy, name string, fields log.Fields,
	op func(ctx context.Context) error) error {

	return policy.Do(ctx, op, func(attempt int, err error) {
		rc.logger.WithFields(fields).WithFields(log.Fields{
			"operation": name,
			"attempt":   attempt,
			"attempts":  policy.MaxAttempts,
		}).Debugln("attempt failed: " + err.Error())
	})
}
