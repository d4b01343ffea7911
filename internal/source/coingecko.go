package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"coin-tracker/internal/catalog"
)

const (
	simplePricePath = "/simple/price"
	coinsListPath   = "/coins/list"
)

// CoinGeckoOptions parameterise the CoinGecko client.
type CoinGeckoOptions struct {
	BaseURL       string
	VsCurrency    string
	Timeout       time.Duration
	UserAgent     string
	MaxRetries    uint64
	RetryInterval time.Duration
}

// CoinGecko fetches prices and the coin catalog from the CoinGecko REST API.
// Transient failures (429 and 5xx) are retried with exponential backoff;
// everything else fails fast.
type CoinGecko struct {
	opts    CoinGeckoOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewCoinGecko constructs a CoinGecko client.
func NewCoinGecko(opts CoinGeckoOptions, logger zerolog.Logger) *CoinGecko {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if opts.VsCurrency == "" {
		opts.VsCurrency = "usd"
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.coingecko.com/api/v3"
	}

	return &CoinGecko{
		opts:    opts,
		logger:  logger.With().Str("component", "coingecko").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// CurrentPrice retrieves the current price of coinID in the configured
// quote currency.
func (c *CoinGecko) CurrentPrice(ctx context.Context, coinID string) (float64, error) {
	coinID = strings.TrimSpace(coinID)
	if coinID == "" {
		return 0, fmt.Errorf("%w: coin id is empty", ErrPriceNotFound)
	}

	params := url.Values{}
	params.Set("ids", coinID)
	params.Set("vs_currencies", c.opts.VsCurrency)
	endpoint := c.baseURL + simplePricePath + "?" + params.Encode()

	payload, err := c.getJSON(ctx, endpoint)
	if err != nil {
		return 0, err
	}

	var parsed map[string]map[string]decimal.Decimal
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return 0, fmt.Errorf("%w: decode price response: %v", ErrSourceUnavailable, err)
	}

	quotes, ok := parsed[coinID]
	if !ok {
		return 0, fmt.Errorf("%w: coin %q", ErrPriceNotFound, coinID)
	}
	price, ok := quotes[c.opts.VsCurrency]
	if !ok {
		return 0, fmt.Errorf("%w: no %s quote for %q", ErrPriceNotFound, c.opts.VsCurrency, coinID)
	}

	c.logger.Debug().Str("coin_id", coinID).Str("price", price.StringFixed(4)).Msg("fetched current price")
	return price.InexactFloat64(), nil
}

// Catalog retrieves the provider's full coin list.
func (c *CoinGecko) Catalog(ctx context.Context) ([]catalog.Entry, error) {
	payload, err := c.getJSON(ctx, c.baseURL+coinsListPath)
	if err != nil {
		return nil, err
	}

	var entries []catalog.Entry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode coin list: %v", ErrSourceUnavailable, err)
	}
	return entries, nil
}

// getJSON performs a GET, retrying rate limits and server errors.
func (c *CoinGecko) getJSON(ctx context.Context, endpoint string) ([]byte, error) {
	var payload []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
			req.Header.Set("User-Agent", ua)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("coingecko status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("coingecko status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
		}

		payload = body
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.opts.RetryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(expo, c.opts.MaxRetries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return payload, nil
}

var _ PriceSource = (*CoinGecko)(nil)
