package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gitlab.com/aoterocom/AOCryptomarket/helpers"
)

const DefaultConfFile = "conf.env"

type CoinGecko struct {
	BaseURL           string
	APIKey            string
	VsCurrency        string
	PageSize          int
	RequestsPerSecond float64
	Timeout           time.Duration
}

type Binance struct {
	BaseURL    string
	QuoteAsset string
	KlineLimit int
}

type Scrape struct {
	GainersLosersURL string
	UserAgent        string
	Timeout          time.Duration
}

type Retry struct {
	Attempts             int
	Interval             time.Duration
	WindowAttempts       int
	WindowInterval       time.Duration
	FailFastClientErrors bool
}

type Database struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

type Config struct {
	CoinGecko CoinGecko
	Binance   Binance
	Scrape    Scrape
	Retry     Retry
	Database  Database
	Log       helpers.LogOptions
}

// Load reads the optional env file at path (CONF_FILE when path is empty) and
// builds the configuration from the environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONF_FILE")
	}
	if path == "" {
		path = DefaultConfFile
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading %s: %w", path, err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	r := &reader{}

	cfg := &Config{
		CoinGecko: CoinGecko{
			BaseURL:           r.str("coingeckoBaseURL", "https://api.coingecko.com/api/v3"),
			APIKey:            r.str("coingeckoAPIKey", ""),
			VsCurrency:        r.str("vsCurrency", "usd"),
			PageSize:          r.int("pageSize", 250),
			RequestsPerSecond: r.float("requestsPerSecond", 0.5),
			Timeout:           r.duration("httpTimeout", 30*time.Second),
		},
		Binance: Binance{
			BaseURL:    r.str("binanceBaseURL", "https://api.binance.com"),
			QuoteAsset: r.str("quoteAsset", "USDT"),
			KlineLimit: r.int("klineLimit", 1000),
		},
		Scrape: Scrape{
			GainersLosersURL: r.str("gainersLosersURL", "https://www.coingecko.com/en/crypto-gainers-losers"),
			UserAgent:        r.str("scrapeUserAgent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko)"),
			Timeout:          r.duration("scrapeTimeout", 30*time.Second),
		},
		Retry: Retry{
			Attempts:             r.int("retryAttempts", 15),
			Interval:             r.duration("retryInterval", 5*time.Second),
			WindowAttempts:       r.int("windowRetryAttempts", 1),
			WindowInterval:       r.duration("windowRetryInterval", time.Second),
			FailFastClientErrors: r.bool("retryFailFastClientErrors", false),
		},
		Database: Database{
			Driver:   r.str("databaseDriver", "sqlite"),
			Path:     r.str("databasePath", "cryptomarket.db"),
			Host:     r.str("databaseHost", "127.0.0.1"),
			Port:     r.str("databasePort", "3306"),
			Name:     r.str("databaseName", "AOCryptomarket"),
			User:     r.str("databaseUser", ""),
			Password: r.str("databasePassword", ""),
		},
		Log: helpers.LogOptions{
			File:           r.str("logFile", "-"),
			Level:          r.str("logLevel", "info"),
			TelegramOutput: r.bool("telegramOutput", false),
			TelegramToken:  r.str("telegramToken", ""),
			TelegramChatID: r.str("telegramChatId", ""),
			TelegramLevel:  r.str("telegramLevel", "warn"),
		},
	}

	if r.err != nil {
		return nil, r.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.CoinGecko.PageSize <= 0 {
		return fmt.Errorf("pageSize must be positive, got %d", c.CoinGecko.PageSize)
	}
	if c.Binance.KlineLimit <= 0 {
		return fmt.Errorf("klineLimit must be positive, got %d", c.Binance.KlineLimit)
	}
	if c.Retry.Attempts <= 0 {
		return fmt.Errorf("retryAttempts must be positive, got %d", c.Retry.Attempts)
	}
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported databaseDriver %q", c.Database.Driver)
	}
	return nil
}

// reader keeps the first parse error so FromEnv can read every key in one pass.
type reader struct {
	err error
}

func (r *reader) str(key string, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (r *reader) int(key string, def int) int {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return n
}

func (r *reader) float(key string, def float64) float64 {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return f
}

func (r *reader) bool(key string, def bool) bool {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return b
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	d, err := helpers.StringIntervalToDuration(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return d
}

func (r *reader) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("error parsing %s: %w", key, err)
	}
}
