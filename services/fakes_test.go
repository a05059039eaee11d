package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gitlab.com/aoterocom/AOCryptomarket/models"
)

var fixedNow = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

type fakeMarketService struct {
	mu        sync.Mutex
	calls     map[string]int
	fetchPage func(ctx context.Context, page int) ([]models.Coin, error)
	byNames   func(ctx context.Context, names []string) ([]models.Coin, error)
	byIds     func(ctx context.Context, ids []string) ([]models.Coin, error)
	search    func(ctx context.Context, query string) ([]models.SearchHit, error)
}

func newFakeMarketService() *fakeMarketService {
	return &fakeMarketService{calls: make(map[string]int)}
}

func (f *fakeMarketService) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeMarketService) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeMarketService) FetchPage(ctx context.Context, page int) ([]models.Coin, error) {
	f.count("FetchPage")
	if f.fetchPage == nil {
		return nil, nil
	}
	return f.fetchPage(ctx, page)
}

func (f *fakeMarketService) FetchByNames(ctx context.Context, names []string) ([]models.Coin, error) {
	f.count("FetchByNames")
	if f.byNames == nil {
		return nil, nil
	}
	return f.byNames(ctx, names)
}

func (f *fakeMarketService) FetchByIds(ctx context.Context, ids []string) ([]models.Coin, error) {
	f.count("FetchByIds")
	if f.byIds == nil {
		return nil, nil
	}
	return f.byIds(ctx, ids)
}

func (f *fakeMarketService) Search(ctx context.Context, query string) ([]models.SearchHit, error) {
	f.count("Search")
	if f.search == nil {
		return nil, nil
	}
	return f.search(ctx, query)
}

type fakeCandleService struct {
	mu     sync.Mutex
	limit  int
	pairs  []string
	ranges []Window
	fail   func(start int64) bool
}

// FetchRange returns one candle per interval from startTime, capped at the
// limit, the same way the exchange does.
func (f *fakeCandleService) FetchRange(ctx context.Context, pair string, startTime int64, endTime int64,
	interval models.Interval) ([]models.CandlePoint, error) {

	f.mu.Lock()
	f.pairs = append(f.pairs, pair)
	f.ranges = append(f.ranges, Window{Start: startTime, End: endTime})
	f.mu.Unlock()

	if f.fail != nil && f.fail(startTime) {
		return nil, errTransient
	}

	step := interval.Duration().Milliseconds()
	var points []models.CandlePoint
	for openTime := startTime; openTime <= endTime && len(points) < f.limit; openTime += step {
		points = append(points, models.CandlePoint{
			OpenTime:  openTime,
			Open:      "42000.5",
			High:      "42100.0",
			Low:       "41900.0",
			Close:     "42050.0",
			CloseTime: openTime + step - 1,
		})
	}
	return points, nil
}

func (f *fakeCandleService) MaxPoints() int {
	return f.limit
}

func (f *fakeCandleService) Pairs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.pairs...)
}

type fakeMoversService struct {
	gainers []models.Coin
	losers  []models.Coin
	err     error
}

func (f *fakeMoversService) FetchGainersLosers(ctx context.Context) ([]models.Coin, []models.Coin, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return append([]models.Coin(nil), f.gainers...), append([]models.Coin(nil), f.losers...), nil
}

type fakeSavedStore struct {
	mu    sync.Mutex
	coins map[string]models.Coin
	order []string
	err   error
}

func newFakeSavedStore(coins ...models.Coin) *fakeSavedStore {
	store := &fakeSavedStore{coins: make(map[string]models.Coin)}
	for _, coin := range coins {
		_ = store.Insert(context.Background(), coin)
	}
	return store
}

func (f *fakeSavedStore) Insert(ctx context.Context, coin models.Coin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if coin.ID == "" {
		return errors.New("empty id")
	}
	if _, ok := f.coins[coin.ID]; !ok {
		f.order = append(f.order, coin.ID)
	}
	f.coins[coin.ID] = coin
	return nil
}

func (f *fakeSavedStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.coins, id)
	for i, saved := range f.order {
		if saved == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeSavedStore) GetAll(ctx context.Context) ([]models.Coin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	coins := make([]models.Coin, 0, len(f.order))
	for _, id := range f.order {
		coins = append(coins, f.coins[id])
	}
	return coins, nil
}

func (f *fakeSavedStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.coins)
}

type fixture struct {
	market *fakeMarketService
	candle *fakeCandleService
	movers *fakeMoversService
	store  *fakeSavedStore
	rc     *RefreshCoordinator
}

func newFixture(t *testing.T, opts ...CoordinatorOption) *fixture {
	t.Helper()

	logger := log.New()
	logger.SetLevel(log.PanicLevel)

	f := &fixture{
		market: newFakeMarketService(),
		candle: &fakeCandleService{limit: 1000},
		movers: &fakeMoversService{},
		store:  newFakeSavedStore(),
	}
	defaults := []CoordinatorOption{
		WithRetryPolicy(NewRetryPolicy(15, time.Millisecond)),
		WithWindowRetryPolicy(NewRetryPolicy(1, time.Millisecond)),
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(logger),
	}
	f.rc = NewRefreshCoordinator(context.Background(), f.market, f.candle, f.movers, f.store,
		append(defaults, opts...)...)
	t.Cleanup(f.rc.Close)
	return f
}

func wait(t *testing.T, task interface{ Done() <-chan struct{} }) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		require.FailNow(t, "task did not finish")
	}
}

func newCoin(id string, name string, symbol string, price string) models.Coin {
	return models.Coin{
		ID:                       id,
		Name:                     name,
		Symbol:                   symbol,
		Image:                    "https://assets.example.com/" + symbol + ".png",
		CurrentPrice:             decimal.RequireFromString(price),
		PriceChangePercentage24h: decimal.RequireFromString("1.5"),
		LastUpdated:              "2024-01-01T23:59:00Z",
	}
}

func coinIDs(coins []models.Coin) []string {
	out := make([]string, 0, len(coins))
	for _, c := range coins {
		out = append(out, c.ID)
	}
	return out
}
