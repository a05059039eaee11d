// Package scraper extracts the top gainers and losers tables from the
// CoinGecko website.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"gitlab.com/aoterocom/AOCryptomarket/helpers"
	"gitlab.com/aoterocom/AOCryptomarket/models"
	"gitlab.com/aoterocom/AOCryptomarket/providers"
)

const (
	DefaultURL = "https://www.coingecko.com/en/crypto-gainers-losers"

	priceColumn  = 3
	changeColumn = 5
)

type GainersLosersService struct {
	client *resty.Client
	url    string
}

type Option func(*GainersLosersService)

func WithURL(url string) Option {
	return func(s *GainersLosersService) {
		s.url = url
	}
}

func WithUserAgent(userAgent string) Option {
	return func(s *GainersLosersService) {
		if userAgent != "" {
			s.client.SetHeader("User-Agent", userAgent)
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(s *GainersLosersService) {
		s.client.SetTimeout(timeout)
	}
}

func NewGainersLosersService(opts ...Option) *GainersLosersService {
	s := &GainersLosersService{
		client: resty.New().
			SetTimeout(30*time.Second).
			SetHeader("Accept", "text/html"),
		url: DefaultURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchGainersLosers downloads the page once and parses it. There is no retry.
func (s *GainersLosersService) FetchGainersLosers(ctx context.Context) ([]models.Coin, []models.Coin, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, nil, fmt.Errorf("request gainers/losers: %w", err)
	}
	if resp.IsError() {
		return nil, nil, &providers.APIError{
			Source:     "coingecko-web",
			StatusCode: resp.StatusCode(),
			Endpoint:   s.url,
			Message:    resp.Status(),
		}
	}
	return ParseGainersLosers(bytes.NewReader(resp.Body()))
}

// ParseGainersLosers reads every tbody of the document: the first one holds
// the gainers, the following ones the losers. A row that cannot be parsed fails
// the whole document.
func ParseGainersLosers(r io.Reader) ([]models.Coin, []models.Coin, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse gainers/losers html: %w", err)
	}

	tables := doc.Find("tbody")
	if tables.Length() == 0 {
		return nil, nil, fmt.Errorf("parse gainers/losers html: no table body found")
	}

	var gainers, losers []models.Coin
	var parseErr error
	tables.EachWithBreak(func(index int, table *goquery.Selection) bool {
		table.Find("tr").EachWithBreak(func(rowIndex int, row *goquery.Selection) bool {
			coin, err := parseRow(row)
			if err != nil {
				parseErr = fmt.Errorf("parse gainers/losers table %d row %d: %w", index, rowIndex, err)
				return false
			}
			if index == 0 {
				gainers = append(gainers, coin)
			} else {
				losers = append(losers, coin)
			}
			return true
		})
		return parseErr == nil
	})
	if parseErr != nil {
		return nil, nil, parseErr
	}

	return gainers, losers, nil
}

func parseRow(row *goquery.Selection) (models.Coin, error) {
	link := row.Find("a")

	symbol := joinedText(link.Find("div > div > div"))
	if symbol == "" {
		return models.Coin{}, fmt.Errorf("missing symbol")
	}
	// The name cell repeats the symbol of its nested element, so the joined
	// text reads "Name SYM SYM".
	name := strings.TrimSpace(helpers.SubstringBeforeLast(joinedText(link.Find("div > div")), symbol+" "+symbol))

	image, _ := row.Find("img").First().Attr("src")
	image, _, _ = strings.Cut(image, "?")

	cells := row.Find("td")
	if cells.Length() <= changeColumn {
		return models.Coin{}, fmt.Errorf("expected more than %d cells, got %d", changeColumn, cells.Length())
	}

	price, err := parsePrice(cells.Eq(priceColumn).Text())
	if err != nil {
		return models.Coin{}, err
	}
	change, err := parseChange(cells.Eq(changeColumn).Text())
	if err != nil {
		return models.Coin{}, err
	}

	return models.Coin{
		Name:                     name,
		Symbol:                   symbol,
		Image:                    image,
		CurrentPrice:             price,
		PriceChangePercentage24h: change,
	}, nil
}

func parsePrice(text string) (decimal.Decimal, error) {
	text = helpers.NormalizeSpace(text)
	if _, after, found := strings.Cut(text, "$"); found {
		text = after
	}
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	price, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price %q: %w", text, err)
	}
	return price, nil
}

func parseChange(text string) (decimal.Decimal, error) {
	text = helpers.NormalizeSpace(text)
	text, _, _ = strings.Cut(text, "%")
	text = strings.TrimSpace(text)
	change, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid change %q: %w", text, err)
	}
	return change, nil
}

// joinedText mirrors how a selector engine renders the text of several
// matches: whitespace-normalized text of each element joined by spaces.
func joinedText(selection *goquery.Selection) string {
	var parts []string
	selection.Each(func(_ int, s *goquery.Selection) {
		if text := helpers.NormalizeSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}
