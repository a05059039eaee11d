// Package coingecko reads market listings, name/id lookups and search results
// from the CoinGecko REST API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"gitlab.com/aoterocom/AOCryptomarket/models"
	"gitlab.com/aoterocom/AOCryptomarket/providers"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL    = "https://api.coingecko.com/api/v3"
	DefaultVsCurrency = "usd"
	DefaultPageSize   = 250
	DefaultTimeout    = 30 * time.Second

	marketsPath = "/coins/markets"
	searchPath  = "/search"
)

type CoinGeckoService struct {
	client     *resty.Client
	limiter    *rate.Limiter
	vsCurrency string
	pageSize   int
}

type Option func(*CoinGeckoService)

func WithBaseURL(baseURL string) Option {
	return func(s *CoinGeckoService) {
		s.client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	}
}

// WithAPIKey sends the demo API key header on every request.
func WithAPIKey(apiKey string) Option {
	return func(s *CoinGeckoService) {
		if apiKey != "" {
			s.client.SetHeader("x-cg-demo-api-key", apiKey)
		}
	}
}

// WithRateLimit caps the request rate. Zero or negative disables the limit.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(s *CoinGeckoService) {
		if requestsPerSecond <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(s *CoinGeckoService) {
		s.client.SetTimeout(timeout)
	}
}

func WithVsCurrency(vsCurrency string) Option {
	return func(s *CoinGeckoService) {
		s.vsCurrency = vsCurrency
	}
}

func WithPageSize(pageSize int) Option {
	return func(s *CoinGeckoService) {
		s.pageSize = pageSize
	}
}

func NewCoinGeckoService(opts ...Option) *CoinGeckoService {
	s := &CoinGeckoService{
		client: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetTimeout(DefaultTimeout).
			SetHeader("Accept", "application/json"),
		limiter:    rate.NewLimiter(rate.Inf, 1),
		vsCurrency: DefaultVsCurrency,
		pageSize:   DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CoinGeckoService) FetchPage(ctx context.Context, page int) ([]models.Coin, error) {
	var coins []models.Coin
	err := s.get(ctx, marketsPath, map[string]string{
		"vs_currency": s.vsCurrency,
		"per_page":    strconv.Itoa(s.pageSize),
		"page":        strconv.Itoa(page),
	}, &coins)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	return coins, nil
}

func (s *CoinGeckoService) FetchByNames(ctx context.Context, names []string) ([]models.Coin, error) {
	var coins []models.Coin
	err := s.get(ctx, marketsPath, map[string]string{
		"vs_currency": s.vsCurrency,
		"names":       strings.Join(names, ","),
	}, &coins)
	if err != nil {
		return nil, fmt.Errorf("fetch by names: %w", err)
	}
	return coins, nil
}

func (s *CoinGeckoService) FetchByIds(ctx context.Context, ids []string) ([]models.Coin, error) {
	var coins []models.Coin
	err := s.get(ctx, marketsPath, map[string]string{
		"vs_currency": s.vsCurrency,
		"ids":         strings.Join(ids, ","),
	}, &coins)
	if err != nil {
		return nil, fmt.Errorf("fetch by ids: %w", err)
	}
	return coins, nil
}

func (s *CoinGeckoService) Search(ctx context.Context, query string) ([]models.SearchHit, error) {
	var result models.SearchResult
	err := s.get(ctx, searchPath, map[string]string{"query": query}, &result)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return result.Coins, nil
}

// get performs a rate-limited GET and decodes the JSON body into out.
func (s *CoinGeckoService) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}

	if resp.IsError() {
		return &providers.APIError{
			Source:     "coingecko",
			StatusCode: resp.StatusCode(),
			Endpoint:   path,
			Message:    resp.Status(),
		}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
