package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
	"gitlab.com/aoterocom/AOCryptomarket/config"
	"gitlab.com/aoterocom/AOCryptomarket/database"
	"gitlab.com/aoterocom/AOCryptomarket/helpers"
	"gitlab.com/aoterocom/AOCryptomarket/providers"
	"gitlab.com/aoterocom/AOCryptomarket/providers/binance"
	"gitlab.com/aoterocom/AOCryptomarket/providers/coingecko"
	"gitlab.com/aoterocom/AOCryptomarket/providers/scraper"
	"gitlab.com/aoterocom/AOCryptomarket/services"
)

// session wires the providers, the store and a coordinator for one command run.
type session struct {
	cfg         *config.Config
	dbService   *database.DBService
	coordinator *services.RefreshCoordinator
}

func newSession(c *cli.Context) (*session, error) {
	cfg, err := config.Load(c.String("conf"))
	if err != nil {
		return nil, err
	}
	if err := helpers.Logger.Configure(cfg.Log); err != nil {
		return nil, fmt.Errorf("error configuring logger: %w", err)
	}

	dbService, err := database.NewDBService(cfg.Database)
	if err != nil {
		return nil, err
	}

	marketService := coingecko.NewCoinGeckoService(
		coingecko.WithBaseURL(cfg.CoinGecko.BaseURL),
		coingecko.WithAPIKey(cfg.CoinGecko.APIKey),
		coingecko.WithVsCurrency(cfg.CoinGecko.VsCurrency),
		coingecko.WithPageSize(cfg.CoinGecko.PageSize),
		coingecko.WithRateLimit(cfg.CoinGecko.RequestsPerSecond),
		coingecko.WithTimeout(cfg.CoinGecko.Timeout),
	)
	candleService := binance.NewBinanceService(
		binance.WithBaseURL(cfg.Binance.BaseURL),
		binance.WithKlineLimit(cfg.Binance.KlineLimit),
	)
	moversService := scraper.NewGainersLosersService(
		scraper.WithURL(cfg.Scrape.GainersLosersURL),
		scraper.WithUserAgent(cfg.Scrape.UserAgent),
		scraper.WithTimeout(cfg.Scrape.Timeout),
	)

	retryPolicy := services.NewRetryPolicy(cfg.Retry.Attempts, cfg.Retry.Interval)
	if cfg.Retry.FailFastClientErrors {
		retryPolicy = retryPolicy.WithFailFast(providers.IsClientError)
	}

	coordinator := services.NewRefreshCoordinator(c.Context, marketService, candleService, moversService, dbService,
		services.WithRetryPolicy(retryPolicy),
		services.WithWindowRetryPolicy(services.NewRetryPolicy(cfg.Retry.WindowAttempts, cfg.Retry.WindowInterval)),
		services.WithQuoteAsset(cfg.Binance.QuoteAsset),
	)

	return &session{cfg: cfg, dbService: dbService, coordinator: coordinator}, nil
}

func (s *session) Close() {
	s.coordinator.Close()
	if err := s.dbService.Close(); err != nil {
		helpers.Logger.Errorln("Error closing database: " + err.Error())
	}
	helpers.Logger.Close()
}

// wait blocks until task is done or the command is interrupted.
func wait(ctx context.Context, task interface{ Done() <-chan struct{} }) error {
	select {
	case <-task.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// withSession runs action with a fresh session and closes it afterwards.
func withSession(action func(c *cli.Context, s *session) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := newSession(c)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		defer s.Close()
		return action(c, s)
	}
}
